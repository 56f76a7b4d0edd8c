package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownDBEngine error if db.gormEngine is none of mysql, postgres or sqlite.
	ErrUnknownDBEngine = errors.New("toml config db.gormEngine is unknown")

	// ErrUnknownStorageDriver error if storage.driver is none of minio or memory.
	ErrUnknownStorageDriver = errors.New("toml config storage.driver is unknown")

	// ErrStorageIncomplete error if the minio driver is selected without endpoint or bucket.
	ErrStorageIncomplete = errors.New("toml config storage needs endpoint and bucket for minio")

	// ErrURLExpiryTooLong error if storage.urlExpiry exceeds what S3 allows for presigned URLs.
	ErrURLExpiryTooLong = errors.New("toml config storage.urlExpiry can not exceed 168h")
)

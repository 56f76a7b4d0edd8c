// Package main starts the OLTECH workspace service.
// Teams create a group, invite members with a six character join code and
// share projects, tasks and documents. The service exposes a JSON API, an
// invite landing page and websocket streams that push live snapshots of every
// collection. Data lives in MySQL, PostgreSQL or SQLite through gorm and
// documents in an S3 compatible bucket.
package main

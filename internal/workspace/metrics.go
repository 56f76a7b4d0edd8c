package workspace

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	groupsCreated = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "workspace_groups_created_total",
		Help: "Number of groups founded.",
	})

	groupJoins = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "workspace_group_joins_total",
		Help: "Number of users that joined a group by code.",
	})

	documentsUploaded = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "workspace_documents_uploaded_total",
		Help: "Number of documents stored.",
	})

	compensations = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "workspace_compensations_total",
		Help: "Number of blob writes undone or retried after a failed document operation.",
	}, []string{"op"})
)

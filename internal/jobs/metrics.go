package jobs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	docsAnnotated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "condner_docs_annotated_total",
		Help: "Texts annotated, by job step.",
	}, []string{"step"})

	conditionsFound = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "condner_conditions_total",
		Help: "Condition entities found or aligned, by job.",
	}, []string{"job"})

	misalignedAnnotations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "condner_misaligned_annotations_total",
		Help: "Labeled annotations dropped because they do not align with tokens.",
	})
)

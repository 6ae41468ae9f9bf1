package metrics

type NoopMetrics struct{}

var _ Metricer = NoopMetrics{}

func (n NoopMetrics) RecordInfo(version string) {}

func (n NoopMetrics) RecordUp() {}

func (n NoopMetrics) RecordBuildAttempt(builder string) (onDone func(outcome string)) {
	return func(outcome string) {}
}

func (n NoopMetrics) RecordEmptyPayload(builder string) {}

func (n NoopMetrics) RecordPayloadFees(builder string, feesWei float64) {}

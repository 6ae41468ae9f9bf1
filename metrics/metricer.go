package metrics

type Metricer interface {
	RecordInfo(version string)
	RecordUp()

	// RecordBuildAttempt starts timing one build attempt of the given builder.
	// The returned func records the outcome ("better", "aborted", "cancelled",
	// "error") and stops the timer.
	RecordBuildAttempt(builder string) (onDone func(outcome string))

	// RecordEmptyPayload counts an empty-payload construction by the given
	// builder.
	RecordEmptyPayload(builder string)

	// RecordPayloadFees tracks the fee total of a sealed payload, in wei.
	RecordPayloadFees(builder string, feesWei float64)
}

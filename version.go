package mediator

// InstrumentationVersion is reported by the telemetry packages.
const InstrumentationVersion = "0.3.0"

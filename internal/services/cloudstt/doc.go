// Package cloudstt uploads audio clips to an external transcription service.
//
// The service is the pipeline's last escalation tier. Every request carries a
// bounded timeout, and every failure mode (auth, rate limit, network,
// timeout) maps onto a services sentinel so the caller can treat it as "no
// improvement" rather than a fatal error. The service returns plain text
// with no confidence signal.
package cloudstt

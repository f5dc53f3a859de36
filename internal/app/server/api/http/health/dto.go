package health

import "time"

type Input struct{}

type Output struct {
	Body Response
}

// Response represents the health check response
type Response struct {
	Status    string    `json:"status" example:"OK" doc:"Health status of the service"`
	Engine    string    `json:"engine,omitempty" example:"sqlite" doc:"Storage engine in use"`
	Timestamp time.Time `json:"timestamp" doc:"Server time"`
}

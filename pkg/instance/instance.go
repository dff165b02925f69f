package instance

import "github.com/stocksentryhq/stocksentry-backend/pkg/env"

// ID identifies this process in log fields. Heroku sets DYNO; container
// deployments can set WORKER_ID instead. Local runs report "local".
func ID() string {
	return env.First("local", "DYNO", "WORKER_ID")
}

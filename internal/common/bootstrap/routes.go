package bootstrap

import "net/http"

// Routes mounts each module's handler under the api prefix. Every module
// handler matches the full path itself.
type Routes struct {
	APIPrefix string
	Health    http.Handler
	Metrics   http.Handler
	Auth      http.Handler
	Users     http.Handler
	SAP       http.Handler
}

func (r Routes) Mux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/health", r.Health)
	mux.Handle("/metrics", r.Metrics)
	mux.Handle(r.APIPrefix+"/auth/", r.Auth)
	mux.Handle(r.APIPrefix+"/users", r.Users)
	mux.Handle(r.APIPrefix+"/users/", r.Users)
	mux.Handle(r.APIPrefix+"/integration/sap/", r.SAP)
	return mux
}

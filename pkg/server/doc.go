// Package server provides the telemetry HTTP endpoint shared by both
// Atlas processes. It serves Prometheus metrics and a health check;
// it is never in the proxied traffic path.
package server

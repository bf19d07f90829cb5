// Package api defines the JSON transport types shared by the daemon's HTTP
// server and the CLI client, plus converters from internal models.
package api

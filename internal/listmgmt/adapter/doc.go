// Package adapter contains implementations of interfaces defined in app.
// DynamoDB stores and the Redis event bus live here.
package adapter

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("listmgmt/adapter")

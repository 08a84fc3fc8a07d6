package repository

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("github.com/Sumit-1109/Link-Management-Backend/internal/repository")

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/question-service/internal/answerconfig"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, service string) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", service),
	}
}

// LogOperation records the outcome of one service call. Rejected input is
// logged at WARN, missing resources at INFO and everything else at ERROR.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation string, resourceID uint, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err) || IsAnswerConfig(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsUnauthorized(err):
			level = slog.LevelWarn
			status = "unauthorized"
		case IsNotFound(err):
			level = slog.LevelInfo
			status = "not_found"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.Uint64("resource_id", uint64(resourceID)),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))

		var validationErr ValidationErrors
		var cfgErr *answerconfig.Error
		if errors.As(err, &validationErr) {
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErr)))
		} else if errors.As(err, &cfgErr) {
			attrs = append(attrs, slog.String("answer_config_error", cfgErr.Code()))
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

// ContextualLogger binds an operation so its result can be logged with the
// elapsed time.
type ContextualLogger struct {
	parent    *ServiceLogger
	ctx       context.Context
	operation string
	start     time.Time
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation string) *ContextualLogger {
	return &ContextualLogger{
		parent:    l,
		ctx:       ctx,
		operation: operation,
		start:     time.Now(),
	}
}

func (cl *ContextualLogger) LogResult(resourceID uint, err error) {
	cl.parent.LogOperation(cl.ctx, cl.operation, resourceID, time.Since(cl.start), err)
}

func (l *ServiceLogger) Logger() *slog.Logger {
	return l.logger
}

package logger

import (
	"context"

	"go.uber.org/zap"
)

type requestKey struct{}

// RequestInfo identifies the unit of work a log line belongs to
type RequestInfo struct {
	RequestID string
	FID       uint64
}

// WithRequest returns a context whose loggers carry the request id and fid
func WithRequest(ctx context.Context, info RequestInfo) context.Context {
	if existing, ok := ctx.Value(requestKey{}).(RequestInfo); ok {
		if info.RequestID == "" {
			info.RequestID = existing.RequestID
		}
		if info.FID == 0 {
			info.FID = existing.FID
		}
	}
	return context.WithValue(ctx, requestKey{}, info)
}

func requestFields(ctx context.Context) []zap.Field {
	info, ok := ctx.Value(requestKey{}).(RequestInfo)
	if !ok {
		return nil
	}

	var fields []zap.Field
	if info.RequestID != "" {
		fields = append(fields, zap.String("request_id", info.RequestID))
	}
	if info.FID != 0 {
		fields = append(fields, zap.Uint64("fid", info.FID))
	}
	return fields
}

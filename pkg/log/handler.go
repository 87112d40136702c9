package log

import (
	"context"
	"log/slog"

	cerrors "github.com/cockroachdb/errors"

	"github.com/YuminosukeSato/mantar/pkg/errors"
)

// ErrFmtHandler enriches records that carry an error under ErrAttrKey.
// It adds the stack trace (StacktraceAttrKey) and, for mantar's own error
// types, an ErrorCodeKey so failed loads and predictions can be filtered
// without parsing messages.
type ErrFmtHandler struct {
	handler slog.Handler
}

func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{handler: handler}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var (
		err     error
		hasCode bool
	)
	r.Attrs(func(attr slog.Attr) bool {
		switch attr.Key {
		case ErrAttrKey:
			if e, ok := attr.Value.Any().(error); ok && err == nil {
				err = e
			}
		case ErrorCodeKey:
			hasCode = true
		}
		return true
	})
	if err == nil {
		return eh.handler.Handle(ctx, r)
	}

	if st := extractStacktrace(err); st != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, st))
	}
	if code := errorCode(err); code != "" && !hasCode {
		r.AddAttrs(slog.String(ErrorCodeKey, code))
	}
	return eh.handler.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

// 回復した panic は cockroachdb のスタックを持たないので PanicError 側を使う
func extractStacktrace(err error) string {
	if details := cerrors.GetSafeDetails(err).SafeDetails; len(details) > 0 && details[0] != "" {
		return details[0]
	}
	var p *errors.PanicError
	if errors.As(err, &p) {
		return p.StackTrace
	}
	return ""
}

func errorCode(err error) string {
	var (
		unknown   *errors.UnknownCategoryError
		dataset   *errors.DatasetError
		artifact  *errors.ArtifactError
		notFitted *errors.NotFittedError
		panicErr  *errors.PanicError
	)
	switch {
	case errors.As(err, &unknown):
		return "UNKNOWN_CATEGORY"
	case errors.As(err, &dataset):
		return "DATASET"
	case errors.As(err, &artifact):
		return "ARTIFACT"
	case errors.As(err, &notFitted):
		return "NOT_FITTED"
	case errors.As(err, &panicErr):
		return "PANIC"
	}
	return ""
}

package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderRequestAt = "X-Request-At"

	// provisionalLockTTL frees a request id whose upload never finished.
	provisionalLockTTL = 60 * time.Second
	// maxClockSkew bounds X-Request-At against the gateway clock (UTC).
	maxClockSkew = 10 * time.Minute
)

// savedWrite is what Redis holds per request id: a lock while the document
// is being stored, then the {success,message} reply sent for it.
type savedWrite struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// replyCapture tees the handler's reply so it can be stored for replay.
type replyCapture struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *replyCapture) Header() http.Header { return r.w.Header() }
func (r *replyCapture) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.w.Write(b)
}
func (r *replyCapture) WriteHeader(code int) { r.code = code; r.w.WriteHeader(code) }

func fail(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]any{"success": false, "message": msg})
}

// IdempotencyMiddleware stores each document upload once per X-Request-Id.
// A loans client that retries an upload after a timeout sends the same id;
// the retry gets the reply of the first attempt and the document is not
// written again. The same id with a different document is a 409.
//
// Uploads without X-Request-Id pass straight through. With it, X-Request-At
// is required as epoch (seconds or ms) or RFC3339 with a zone.
func IdempotencyMiddleware(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			reqID := strings.TrimSpace(req.Header.Get(HeaderRequestID))
			if reqID == "" {
				return next(c)
			}
			if !validReqID(reqID) {
				return fail(c, http.StatusBadRequest, "invalid X-Request-Id format")
			}
			reqAt, err := parseRequestAt(req.Header.Get(HeaderRequestAt))
			if err != nil {
				return fail(c, http.StatusBadRequest, err.Error())
			}
			now := nowUTC()
			if reqAt.Before(now.Add(-maxClockSkew)) || reqAt.After(now.Add(maxClockSkew)) {
				return fail(c, http.StatusBadRequest, "X-Request-At too skewed")
			}

			// The handler still needs the document after it is hashed.
			var doc []byte
			if req.Body != nil {
				doc, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewReader(doc))
			docHash := bodyHash(doc)

			key := buildKey(req.Method, c.Path(), reqID)
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()

			won, err := provisionalSet(ctx, rdb, key, savedWrite{
				InProgress:  true,
				BodySHA256:  docHash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   now,
			})
			if err != nil {
				slog.Warn("idempotency store unavailable", "key", key, "error", err)
				return fail(c, http.StatusServiceUnavailable, "idempotency store unavailable")
			}
			if !won {
				prev, err := loadEntry(ctx, rdb, key)
				if err != nil {
					slog.Warn("idempotency entry unreadable", "key", key, "error", err)
				}
				if prev.BodySHA256 != "" && prev.BodySHA256 != docHash {
					return fail(c, http.StatusConflict, "X-Request-Id reused with different body")
				}
				if !prev.InProgress && prev.Code != 0 && len(prev.Body) > 0 {
					return c.Blob(prev.Code, echo.MIMEApplicationJSON, prev.Body)
				}
				return fail(c, http.StatusConflict, "request is already in progress")
			}

			rec := &replyCapture{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			reply := savedWrite{
				Code:        rec.code,
				Body:        rec.buf.Bytes(),
				BodySHA256:  docHash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}
			if err := saveFinal(context.Background(), rdb, key, reply, ttl); err != nil {
				slog.Warn("upload reply not saved for replay", "key", key, "error", err)
			}
			return nil
		}
	}
}

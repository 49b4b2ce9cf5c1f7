package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-service-sdk/internal/appstate"
	"github.com/MKhiriev/go-service-sdk/internal/config"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
	"github.com/MKhiriev/go-service-sdk/internal/utils"
)

// SeqIngestPath is the Seq endpoint accepting newline-delimited CLEF.
const SeqIngestPath = "/api/events/raw"

const (
	clefContentType  = "application/vnd.serilog.clef"
	seqMaxBuffered   = 10_000
	seqRequestTime   = 5 * time.Second
	seqRetries       = 2
	seqFinalFlushCap = 3 * time.Second
)

var seqLevels = map[string]string{
	zerolog.LevelTraceValue: "Verbose",
	zerolog.LevelDebugValue: "Debug",
	zerolog.LevelInfoValue:  "Information",
	zerolog.LevelWarnValue:  "Warning",
	zerolog.LevelErrorValue: "Error",
	zerolog.LevelFatalValue: "Fatal",
	zerolog.LevelPanicValue: "Fatal",
}

// SeqWriter is a log sink batching zerolog JSON lines and shipping them to
// Seq as CLEF. Attach it with [logger.Logger.WithSinks]; events are posted by
// the flush loop started with Start.
type SeqWriter struct {
	client   *utils.HTTPClient
	interval time.Duration

	mu      sync.Mutex
	buf     [][]byte
	dropped int

	start sync.Once
	wg    sync.WaitGroup
	log   *logger.Logger
}

// NewSeqWriter returns a writer shipping to settings.SeqURL.
func NewSeqWriter(settings config.SeqSettings) *SeqWriter {
	interval := settings.SeqFlushInterval()
	if interval <= 0 {
		interval = config.DefaultFlushInterval
	}

	return &SeqWriter{
		client:   utils.NewHTTPClient(strings.TrimRight(settings.SeqURL(), "/"), seqRequestTime, seqRetries),
		interval: interval,
		log:      logger.Nop(),
	}
}

// Write buffers one log line. It never fails; when the buffer is full the
// oldest lines are dropped.
func (w *SeqWriter) Write(p []byte) (int, error) {
	line := bytes.TrimSpace(p)
	if len(line) == 0 {
		return len(p), nil
	}

	cp := make([]byte, len(line))
	copy(cp, line)

	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) >= seqMaxBuffered {
		w.buf = w.buf[1:]
		w.dropped++
	}
	w.buf = append(w.buf, cp)
	return len(p), nil
}

// Start launches the flush loop. Remaining events are flushed once more
// when the state reaches ShuttingDown.
func (w *SeqWriter) Start(state *appstate.AppStates, logger *logger.Logger) {
	w.start.Do(func() {
		w.log = logger
		w.wg.Add(1)

		go func() {
			defer w.wg.Done()
			ticker := time.NewTicker(w.interval)
			defer ticker.Stop()

			for {
				select {
				case <-state.Done():
					ctx, cancel := context.WithTimeout(context.Background(), seqFinalFlushCap)
					w.flushAndLog(ctx)
					cancel()
					return
				case <-ticker.C:
					w.flushAndLog(state.Context())
				}
			}
		}()
	})
}

// Wait blocks until the flush loop has exited.
func (w *SeqWriter) Wait() {
	w.wg.Wait()
}

func (w *SeqWriter) flushAndLog(ctx context.Context) {
	if err := w.Flush(ctx); err != nil {
		w.log.Warn().Err(err).Msg("seq flush failed")
	}
}

// Flush posts every buffered event. Events of a failed post are discarded.
func (w *SeqWriter) Flush(ctx context.Context) error {
	w.mu.Lock()
	lines := w.buf
	dropped := w.dropped
	w.buf = nil
	w.dropped = 0
	w.mu.Unlock()

	if len(lines) == 0 {
		return nil
	}
	if dropped > 0 {
		w.log.Warn().Int("dropped", dropped).Msg("seq buffer overflow")
	}

	var body bytes.Buffer
	for _, line := range lines {
		event, err := toCLEF(line)
		if err != nil {
			continue
		}
		body.Write(event)
		body.WriteByte('\n')
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", clefContentType).
		SetQueryParam("clef", "").
		SetBody(body.Bytes()).
		Post(SeqIngestPath)
	if err != nil {
		return fmt.Errorf("seq request: %w", err)
	}
	return mapHTTPError(resp)
}

// toCLEF renames the zerolog reserved fields to their CLEF names.
func toCLEF(line []byte) ([]byte, error) {
	var event map[string]any
	if err := json.Unmarshal(line, &event); err != nil {
		return nil, err
	}

	rename := func(from, to string) {
		if v, ok := event[from]; ok {
			delete(event, from)
			event[to] = v
		}
	}

	if lvl, ok := event[zerolog.LevelFieldName].(string); ok {
		if mapped, ok := seqLevels[lvl]; ok {
			event[zerolog.LevelFieldName] = mapped
		}
	}

	rename(zerolog.TimestampFieldName, "@t")
	rename(zerolog.MessageFieldName, "@m")
	rename(zerolog.LevelFieldName, "@l")
	rename(zerolog.ErrorFieldName, "@x")

	if _, ok := event["@t"]; !ok {
		event["@t"] = time.Now().UTC().Format(time.RFC3339Nano)
	}

	return json.Marshal(event)
}

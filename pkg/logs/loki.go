package logs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/techforgyms/techforgyms_backend/config"
)

const (
	lokiPushPath      = "/loki/api/v1/push"
	lokiBatchSize     = 200
	lokiFlushInterval = 2 * time.Second
	lokiQueueSize     = 4096
)

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

type lokiPush struct {
	Streams []lokiStream `json:"streams"`
}

type lokiEntry struct {
	at   time.Time
	line string
}

// lokiShipper is the io.Writer behind the Loki slog handler. Write only
// enqueues; a background loop pushes batches. When the queue is full new
// lines are dropped so logging never blocks a request.
type lokiShipper struct {
	endpoint string
	username string
	password string
	labels   map[string]string
	client   *http.Client

	queue   chan lokiEntry
	dropped int64
	mu      sync.Mutex
}

func lokiEndpoint(base string) string {
	base = strings.TrimRight(base, "/")
	if strings.HasSuffix(base, lokiPushPath) {
		return base
	}
	return base + lokiPushPath
}

func newLokiShipper(cfg *config.Config) *lokiShipper {
	s := newLokiClient(cfg)
	go s.run(lokiFlushInterval)
	return s
}

func newLokiClient(cfg *config.Config) *lokiShipper {
	loki := cfg.Logging.Output.Loki
	return &lokiShipper{
		endpoint: lokiEndpoint(loki.Endpoint),
		username: loki.Username,
		password: loki.Password,
		labels: map[string]string{
			"service": cfg.Observability.ServiceName,
			"env":     cfg.Server.Environment,
		},
		client: &http.Client{Timeout: 3 * time.Second},
		queue:  make(chan lokiEntry, lokiQueueSize),
	}
}

func (s *lokiShipper) Write(p []byte) (int, error) {
	e := lokiEntry{at: time.Now(), line: string(bytes.TrimRight(p, "\n"))}
	select {
	case s.queue <- e:
	default:
		s.mu.Lock()
		s.dropped++
		s.mu.Unlock()
	}
	return len(p), nil
}

func (s *lokiShipper) run(every time.Duration) {
	tick := time.NewTicker(every)
	defer tick.Stop()

	batch := make([]lokiEntry, 0, lokiBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		// Loki is best effort; a failed push is dropped, not retried.
		_ = s.push(batch)
		batch = batch[:0]
	}
	for {
		select {
		case e := <-s.queue:
			batch = append(batch, e)
			if len(batch) == lokiBatchSize {
				flush()
			}
		case <-tick.C:
			flush()
		}
	}
}

func (s *lokiShipper) payload(batch []lokiEntry) ([]byte, error) {
	values := make([][2]string, len(batch))
	for i, e := range batch {
		values[i] = [2]string{strconv.FormatInt(e.at.UnixNano(), 10), e.line}
	}
	return json.Marshal(lokiPush{Streams: []lokiStream{{Stream: s.labels, Values: values}}})
}

func (s *lokiShipper) push(batch []lokiEntry) error {
	body, err := s.payload(batch)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.username != "" {
		req.SetBasicAuth(s.username, s.password)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("loki push: status %d", resp.StatusCode)
	}
	return nil
}

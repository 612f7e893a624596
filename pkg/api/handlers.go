package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/ssargent/skald/pkg/argbuf"
	"github.com/ssargent/skald/pkg/codec"
	"github.com/ssargent/skald/pkg/sink"
	"github.com/ssargent/skald/pkg/store"
)

// Server holds the API server state
type Server struct {
	store   EntryStore
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server
func NewServer(store EntryStore, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		store:   store,
		config:  config,
		metrics: metrics,
	}
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.metrics != nil {
		s.metrics.RecordHealthCheck(true)
	}
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleIngest encodes the request's arguments into an argument buffer,
// replays it into both sink flavors, and persists the rendered entry.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		s.recordIngest(false)
		sendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Pattern == "" {
		s.recordIngest(false)
		sendError(w, "Pattern is required", http.StatusBadRequest)
		return
	}

	start := time.Now()
	truncations := 0

	var buf argbuf.Buffer
	defer buf.Release()
	buf.SetWarn(func(msg string) {
		truncations++
		log.Printf("skald: %s", msg)
		if s.metrics != nil {
			s.metrics.RecordTruncation()
		}
	})

	for i, a := range req.Args {
		if err := PackArg(&buf, a); err != nil {
			s.recordIngest(false)
			sendError(w, fmt.Sprintf("Argument %d: %v", i, err), http.StatusBadRequest)
			return
		}
		if s.metrics != nil {
			s.metrics.RecordArgument(a.Kind)
		}
	}

	fs := sink.NewFormatSink()
	buf.Replay(fs)
	es := sink.NewEventSink()
	buf.ReplayBytes(es)
	text := fs.Render(req.Pattern)

	if s.metrics != nil {
		s.metrics.RecordRender(time.Since(start))
		if buf.OnHeap() {
			s.metrics.RecordBufferSpill()
		}
	}

	entry := &store.Entry{
		Pattern:         req.Pattern,
		Text:            text,
		Args:            append([]string(nil), fs.Args()...),
		DescriptorSizes: es.Sizes(),
		Level:           req.Level,
		Truncated:       truncations > 0,
	}
	id, err := s.store.Append(entry)
	if err != nil {
		s.recordIngest(false)
		sendError(w, "Failed to store entry", http.StatusInternalServerError)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordEntryStored()
	}
	s.recordIngest(true)
	sendSuccess(w, IngestResponse{ID: id.String(), Text: text, Truncated: truncations > 0})
}

// handleGetEntry retrieves a stored entry by id.
func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, err := s.store.Get(id)
	switch err {
	case nil:
		sendSuccess(w, entry)
	case store.ErrInvalidID:
		sendError(w, "Invalid entry id", http.StatusBadRequest)
	case store.ErrEntryNotFound:
		sendError(w, "Entry not found", http.StatusNotFound)
	default:
		sendError(w, "Failed to read entry", http.StatusInternalServerError)
	}
}

// handleListEntries returns stored entries in emission order.
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			sendError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := s.store.List(limit)
	if err != nil {
		sendError(w, "Failed to list entries", http.StatusInternalServerError)
		return
	}
	sendSuccess(w, entries)
}

// handleStats reports store statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count()
	if err != nil {
		sendError(w, "Failed to read stats", http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]int{"entries": count})
}

func (s *Server) recordIngest(success bool) {
	if s.metrics != nil {
		s.metrics.RecordIngest(success)
	}
}

// PackArg appends one request argument to the buffer. Kind names match
// the codec registry; the pointer kind is deliberately absent since raw
// addresses are meaningless across the process boundary. Numeric values
// must be json.Number so precision survives decoding.
func PackArg(b *argbuf.Buffer, a IngestArg) error {
	switch a.Kind {
	case "bool":
		v, ok := a.Value.(bool)
		if !ok {
			return fmt.Errorf("expected a boolean")
		}
		b.AppendBool(v)
	case "char":
		s, err := asString(a.Value)
		if err != nil {
			return err
		}
		if len(s) != 1 {
			return fmt.Errorf("expected a single-byte character")
		}
		b.AppendChar(s[0])
	case "wchar":
		s, err := asString(a.Value)
		if err != nil {
			return err
		}
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || size != len(s) {
			return fmt.Errorf("expected a single character")
		}
		units := utf16.Encode([]rune{r})
		if len(units) != 1 {
			return fmt.Errorf("character does not fit a single UTF-16 unit")
		}
		b.AppendWideChar(units[0])
	case "int8":
		v, err := asInt(a.Value, 8)
		if err != nil {
			return err
		}
		b.AppendInt8(int8(v))
	case "int16":
		v, err := asInt(a.Value, 16)
		if err != nil {
			return err
		}
		b.AppendInt16(int16(v))
	case "int32":
		v, err := asInt(a.Value, 32)
		if err != nil {
			return err
		}
		b.AppendInt32(int32(v))
	case "int64":
		v, err := asInt(a.Value, 64)
		if err != nil {
			return err
		}
		b.AppendInt64(v)
	case "uint8":
		v, err := asUint(a.Value, 8)
		if err != nil {
			return err
		}
		b.AppendUint8(uint8(v))
	case "uint16":
		v, err := asUint(a.Value, 16)
		if err != nil {
			return err
		}
		b.AppendUint16(uint16(v))
	case "uint32":
		v, err := asUint(a.Value, 32)
		if err != nil {
			return err
		}
		b.AppendUint32(uint32(v))
	case "uint64":
		v, err := asUint(a.Value, 64)
		if err != nil {
			return err
		}
		b.AppendUint64(v)
	case "float32":
		v, err := asFloat(a.Value)
		if err != nil {
			return err
		}
		b.AppendFloat32(float32(v))
	case "float64":
		v, err := asFloat(a.Value)
		if err != nil {
			return err
		}
		b.AppendFloat64(v)
	case "string":
		s, err := asString(a.Value)
		if err != nil {
			return err
		}
		b.AppendString(s)
	case "wstring":
		s, err := asString(a.Value)
		if err != nil {
			return err
		}
		b.AppendWideString(utf16.Encode([]rune(s)))
	case "guid":
		s, err := asString(a.Value)
		if err != nil {
			return err
		}
		g, err := codec.ParseGUID(s)
		if err != nil {
			return err
		}
		b.AppendGUID(g)
	case "filetime":
		v, err := asUint(a.Value, 64)
		if err != nil {
			return err
		}
		b.AppendFiletime(codec.Filetime(v))
	case "systemtime":
		s, err := asString(a.Value)
		if err != nil {
			return err
		}
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("expected an RFC 3339 timestamp: %w", err)
		}
		ts = ts.UTC()
		b.AppendSystemtime(codec.Systemtime{
			Year:         uint16(ts.Year()),
			Month:        uint16(ts.Month()),
			DayOfWeek:    uint16(ts.Weekday()),
			Day:          uint16(ts.Day()),
			Hour:         uint16(ts.Hour()),
			Minute:       uint16(ts.Minute()),
			Second:       uint16(ts.Second()),
			Milliseconds: uint16(ts.Nanosecond() / 1e6),
		})
	case "sid":
		s, err := asString(a.Value)
		if err != nil {
			return err
		}
		sid, err := codec.ParseSID(s)
		if err != nil {
			return err
		}
		b.AppendSID(sid)
	default:
		return fmt.Errorf("unsupported kind %q", a.Kind)
	}
	return nil
}

func asString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected a string")
	}
	return s, nil
}

func asInt(v interface{}, bits int) (int64, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("expected an integer")
	}
	i, err := strconv.ParseInt(n.String(), 10, bits)
	if err != nil {
		return 0, fmt.Errorf("expected a %d-bit integer: %w", bits, err)
	}
	return i, nil
}

func asUint(v interface{}, bits int) (uint64, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("expected an unsigned integer")
	}
	u, err := strconv.ParseUint(n.String(), 10, bits)
	if err != nil {
		return 0, fmt.Errorf("expected a %d-bit unsigned integer: %w", bits, err)
	}
	return u, nil
}

func asFloat(v interface{}) (float64, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("expected a number")
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("expected a number: %w", err)
	}
	return f, nil
}

package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const maxSymptoms = 2000

type analyzeRequest struct {
	Name     string          `json:"name"`
	Age      json.RawMessage `json:"age"`
	Symptoms string          `json:"symptoms"`
	Language string          `json:"language"`
}

// logRow mirrors the analyzer's CSV-backed log: every column is a string.
type logRow struct {
	Timestamp string `json:"timestamp"`
	Name      string `json:"name"`
	Age       string `json:"age"`
	Language  string `json:"language"`
	Severity  string `json:"severity"`
	Symptoms  string `json:"symptoms"`
}

type store struct {
	mu   sync.Mutex
	rows []logRow
}

func (s *store) add(row logRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
}

// newestFirst returns the log in reverse insertion order.
func (s *store) newestFirst() []logRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]logRow, 0, len(s.rows))
	for i := len(s.rows) - 1; i >= 0; i-- {
		out = append(out, s.rows[i])
	}
	return out
}

func main() {
	addr := flag.String("addr", ":5000", "listen address")
	seed := flag.Bool("seed", true, "pre-populate the log with sample cases")
	rulesPath := flag.String("rules", "", "triage rule pack (default: embedded rules)")
	flag.Parse()

	rules, err := NewRuleEngine(*rulesPath)
	if err != nil {
		log.Fatalf("load rules: %v", err)
	}

	cases := &store{}
	if *seed {
		seedCases(cases, rules)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/analyze", func(w http.ResponseWriter, r *http.Request) {
		if !enforceMethod(w, r, http.MethodPost) {
			return
		}
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Name) == "" || len(req.Age) == 0 || strings.TrimSpace(req.Symptoms) == "" {
			writeError(w, http.StatusBadRequest, "Missing required fields: name, age, symptoms")
			return
		}
		if utf8.RuneCountInString(req.Symptoms) > maxSymptoms {
			writeError(w, http.StatusRequestEntityTooLarge, "Symptoms description is too long (max 2000 characters)")
			return
		}
		language := req.Language
		if language == "" {
			language = "English"
		}

		ageText := strings.Trim(string(req.Age), `"`)
		age, _ := strconv.Atoi(ageText)
		severity, recommendation := rules.Classify(req.Symptoms, age)
		cases.add(logRow{
			Timestamp: time.Now().Format("2006-01-02 15:04:05"),
			Name:      req.Name,
			Age:       ageText,
			Language:  language,
			Severity:  severity,
			Symptoms:  req.Symptoms,
		})
		writeJSON(w, http.StatusOK, map[string]string{
			"status":   "success",
			"severity": severity,
			"message":  recommendation,
		})
	})

	mux.HandleFunc("/logs", func(w http.ResponseWriter, r *http.Request) {
		if !enforceMethod(w, r, http.MethodGet) {
			return
		}
		writeJSON(w, http.StatusOK, cases.newestFirst())
	})

	logger := log.New(log.Writer(), "analyzer-mock ", log.LstdFlags|log.Lmicroseconds)
	srv := &http.Server{
		Addr:              *addr,
		Handler:           logRequests(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server error: %v", err)
	}
}

func seedCases(s *store, rules *RuleEngine) {
	languages := []string{"English", "Spanish", "French", "German", "Hindi", ""}
	samples := []string{
		"mild cough and sore throat",
		"headache since yesterday",
		"high fever and shortness of breath",
		"feeling dizzy after standing up",
		"chest pain radiating to the left arm",
	}
	start := time.Now().Add(-48 * time.Hour)
	for i := 0; i < 23; i++ {
		symptoms := samples[i%len(samples)]
		age := 18 + (i*7)%60
		severity, _ := rules.Classify(symptoms, age)
		s.add(logRow{
			Timestamp: start.Add(time.Duration(i) * time.Hour).Format("2006-01-02 15:04:05"),
			Name:      "Patient " + strconv.Itoa(i+1),
			Age:       strconv.Itoa(age),
			Language:  languages[i%len(languages)],
			Severity:  severity,
			Symptoms:  symptoms,
		})
	}
}

func enforceMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rw.status, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

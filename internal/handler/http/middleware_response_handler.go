package http

import "net/http"

// responseWriter wraps [http.ResponseWriter] so the logging and metrics
// middleware can read the status code and body size once the downstream
// handler has finished. The response itself is not buffered.
type responseWriter struct {
	http.ResponseWriter

	status      int
	size        int
	wroteHeader bool
}

// WriteHeader forwards the status code to the wrapped writer once; later
// calls are dropped, same as the standard library writer.
func (w *responseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

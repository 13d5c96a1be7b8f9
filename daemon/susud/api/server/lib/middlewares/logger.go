// Copyright (C) 2025-2026 Susu Finance, Inc.
// This file is part of go-susu
//
// go-susu is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-susu is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-susu.  If not, see <https://www.gnu.org/licenses/>.

package middlewares

import (
	"net/http"
	"time"

	log "github.com/susu-finance/go-susu/logging"
)

// LoggerMiddleware provides some extra state to the logger middleware
type LoggerMiddleware struct {
	log log.Logger
}

// MakeLogger initializes the logger middleware function
func MakeLogger(log log.Logger) func(http.Handler) http.Handler {
	logger := LoggerMiddleware{
		log: log,
	}

	return logger.handler
}

// handler logs one access-log line per request, in common log format.
func (logger *LoggerMiddleware) handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		tracked := &trackedWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(tracked, r)

		logger.log.Infof("%s %s %s [%v] \"%s %s %s\" %d %d \"%s\" %s",
			r.RemoteAddr,
			"-",
			"-",
			start,
			r.Method,
			r.RequestURI,
			r.Proto, // string "HTTP/1.1"
			tracked.status,
			tracked.size, // bytes_out
			r.UserAgent(),
			time.Since(start),
		)
	})
}

// trackedWriter captures the status and body size the handler wrote, since
// http.ResponseWriter offers no way to read them back.
type trackedWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *trackedWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *trackedWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/rewired-gh/lottoracle/internal/logger"
	"github.com/rewired-gh/lottoracle/internal/models"
	"github.com/rewired-gh/lottoracle/internal/records"
	"github.com/rewired-gh/lottoracle/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

type personRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	BirthDate string `json:"birthDate" validate:"required,drawdate"`
}

type checkRequest struct {
	Numbers []string `json:"numbers" validate:"required,min=1,max=20,dive,number,min=2,max=6"`
	Date    string   `json:"date" validate:"required"`
}

type predictionResponse struct {
	Predictions models.PredictionSet    `json:"predictions"`
	Saved       *models.SavedPrediction `json:"saved,omitempty"`
}

type checkResponse struct {
	models.WinningCheck
	Total int `json:"total"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("drawdate", func(fl validator.FieldLevel) bool {
		_, ok := records.ParseDate(fl.Field().String())
		return ok
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := render.DecodeJSON(http.MaxBytesReader(w, r.Body, maxBodySize), dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag())
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("%s %s: %v", r.Method, r.URL.Path, err)
	}
	respond(w, r, status, errorResponse{Error: err.Error()})
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNoData), errors.Is(err, records.ErrDrawNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Report()
	if err != nil {
		respondError(w, r, statusFor(err), err)
		return
	}
	s.metrics.drawsStored.Set(float64(report.TotalRecords))
	respond(w, r, http.StatusOK, report)
}

func (s *Server) handleDraws(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	draws, err := s.svc.Draws(q.Get("month"), q.Get("q"))
	if err != nil {
		respondError(w, r, statusFor(err), err)
		return
	}
	respond(w, r, http.StatusOK, draws)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = service.FormatCSV
	}
	merge, _ := strconv.ParseBool(q.Get("merge"))

	result, err := s.svc.Import(http.MaxBytesReader(w, r.Body, maxBodySize), format, merge)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err)
		return
	}
	s.metrics.drawsStored.Set(float64(result.Total))
	respond(w, r, http.StatusOK, result)
}

func (s *Server) handleExport(format string) http.HandlerFunc {
	contentType := "text/csv; charset=utf-8"
	if format == service.FormatXLSX {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		filename, err := s.svc.Export(&buf, format)
		if err != nil {
			respondError(w, r, statusFor(err), err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	set, err := s.svc.Predict()
	if err != nil {
		respondError(w, r, statusFor(err), err)
		return
	}
	s.metrics.predictions.Inc()

	resp := predictionResponse{Predictions: set}
	if save, _ := strconv.ParseBool(r.URL.Query().Get("save")); save {
		saved, err := s.svc.SavePrediction(set)
		if err != nil {
			respondError(w, r, statusFor(err), err)
			return
		}
		resp.Saved = &saved
	}
	respond(w, r, http.StatusOK, resp)
}

func (s *Server) handleSavedPredictions(w http.ResponseWriter, r *http.Request) {
	saved, err := s.svc.SavedPredictions()
	if err != nil {
		respondError(w, r, statusFor(err), err)
		return
	}
	if saved == nil {
		saved = []models.SavedPrediction{}
	}
	respond(w, r, http.StatusOK, saved)
}

func (s *Server) handleLucky(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := s.decode(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err)
		return
	}
	birth, _ := records.ParseDate(req.BirthDate)

	set, err := s.svc.Lucky(req.Name, birth)
	if err != nil {
		respondError(w, r, statusFor(err), err)
		return
	}
	respond(w, r, http.StatusOK, set)
}

func (s *Server) handleNumerology(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := s.decode(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err)
		return
	}
	birth, _ := records.ParseDate(req.BirthDate)
	respond(w, r, http.StatusOK, s.svc.Numerology(req.Name, birth))
}

func (s *Server) handleDream(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, s.svc.Dream(r.URL.Query().Get("q")))
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := s.decode(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err)
		return
	}

	check, err := s.svc.Check(req.Numbers, req.Date)
	if err != nil {
		respondError(w, r, statusFor(err), err)
		return
	}
	respond(w, r, http.StatusOK, checkResponse{WinningCheck: check, Total: check.Total()})
}

func (s *Server) handleFetchLatest(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.FetchLatest(r.Context())
	if err != nil {
		respondError(w, r, http.StatusBadGateway, err)
		return
	}
	s.metrics.fetched.WithLabelValues("latest").Add(float64(result.Fetched))
	s.metrics.drawsStored.Set(float64(result.Total))
	respond(w, r, http.StatusOK, result)
}

func (s *Server) handleFetchHistory(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.FetchHistory(r.Context())
	if err != nil {
		respondError(w, r, http.StatusBadGateway, err)
		return
	}
	s.metrics.fetched.WithLabelValues("history").Add(float64(result.Fetched))
	s.metrics.drawsStored.Set(float64(result.Total))
	respond(w, r, http.StatusOK, result)
}

func (s *Server) handleCacheInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.svc.CacheInfo()
	if err != nil {
		respondError(w, r, statusFor(err), err)
		return
	}
	respond(w, r, http.StatusOK, info)
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.ClearCache(); err != nil {
		respondError(w, r, statusFor(err), err)
		return
	}
	s.metrics.drawsStored.Set(0)
	render.NoContent(w, r)
}

package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"pandey.app/outreach/internal/http/handler"
	"pandey.app/outreach/internal/http/middleware"
	"pandey.app/outreach/internal/model"
	"pandey.app/outreach/internal/service"
	"pandey.app/outreach/internal/store"
	"pandey.app/outreach/internal/strategy"
)

var _ = Describe("ProspectHandler", func() {
	var (
		router *gin.Engine
		svc    *mockProspectService
		saved  *model.SavedProspect
	)

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			data, _ := json.Marshal(body)
			buf.Write(data)
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "user_1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockProspectService{}
		h := handler.NewProspectHandler(svc)

		rg := router.Group("/prospects")
		rg.Use(middleware.RequireUser("X-User-ID"))
		{
			rg.GET("", h.List)
			rg.POST("", h.Create)
			rg.PUT("", h.Sync)
			rg.GET("/:id", h.Get)
			rg.PUT("/:id", h.Update)
			rg.DELETE("/:id", h.Delete)
			rg.POST("/:id/strategy", h.GenerateStrategy)
		}

		now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
		saved = &model.SavedProspect{
			Prospect:  model.Prospect{Name: "Dana", Company: "Acme"},
			ID:        1234567890123,
			UserID:    "user_1",
			Status:    model.ProspectStatusNew,
			CreatedAt: now,
			UpdatedAt: now,
		}
	})

	Describe("List", func() {
		It("returns the caller's prospects with string IDs", func() {
			svc.listFn = func(_ context.Context, userID string) ([]model.SavedProspect, error) {
				Expect(userID).To(Equal("user_1"))
				return []model.SavedProspect{*saved}, nil
			}

			w := do(http.MethodGet, "/prospects", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp struct {
				Prospects []map[string]any `json:"prospects"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Prospects).To(HaveLen(1))
			Expect(resp.Prospects[0]["id"]).To(Equal("1234567890123"))
			Expect(resp.Prospects[0]["links"]).To(BeEmpty())
			Expect(resp.Prospects[0]).NotTo(HaveKey("userId"))
		})

		It("returns 401 without a user identity", func() {
			req := httptest.NewRequest(http.MethodGet, "/prospects", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("Create", func() {
		It("returns 201 with the saved prospect", func() {
			svc.createFn = func(_ context.Context, userID string, p model.Prospect) (*model.SavedProspect, error) {
				Expect(userID).To(Equal("user_1"))
				Expect(p.Name).To(Equal("Dana"))
				return saved, nil
			}

			w := do(http.MethodPost, "/prospects", map[string]any{"name": "Dana", "company": "Acme"})

			Expect(w.Code).To(Equal(http.StatusCreated))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["status"]).To(Equal("new"))
		})

		It("returns 400 for an invalid body", func() {
			w := do(http.MethodPost, "/prospects", map[string]any{"company": "Acme"})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 without a company", func() {
			w := do(http.MethodPost, "/prospects", map[string]any{"name": "Dana"})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 503 when the write only reached the fallback store", func() {
			svc.createFn = func(_ context.Context, _ string, _ model.Prospect) (*model.SavedProspect, error) {
				return nil, fmt.Errorf("creating prospect: %w: connection refused", store.ErrPrimaryUnavailable)
			}

			w := do(http.MethodPost, "/prospects", map[string]any{"name": "Dana", "company": "Acme"})

			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
			Expect(w.Body.String()).NotTo(ContainSubstring("connection refused"))
		})

		It("returns 500 on unexpected failures", func() {
			svc.createFn = func(_ context.Context, _ string, _ model.Prospect) (*model.SavedProspect, error) {
				return nil, errors.New("disk full")
			}

			w := do(http.MethodPost, "/prospects", map[string]any{"name": "Dana", "company": "Acme"})

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).NotTo(ContainSubstring("disk full"))
		})
	})

	Describe("Get", func() {
		It("returns 404 when the prospect does not exist", func() {
			svc.getFn = func(_ context.Context, _ string, _ int64) (*model.SavedProspect, error) {
				return nil, store.ErrNotFound
			}

			w := do(http.MethodGet, "/prospects/42", nil)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 400 for a malformed id", func() {
			w := do(http.MethodGet, "/prospects/abc", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns the prospect", func() {
			svc.getFn = func(_ context.Context, _ string, pid int64) (*model.SavedProspect, error) {
				Expect(pid).To(BeEquivalentTo(1234567890123))
				return saved, nil
			}

			w := do(http.MethodGet, "/prospects/1234567890123", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("Update", func() {
		It("passes status and follow-up date to the service", func() {
			svc.updateFn = func(_ context.Context, _ string, pid int64, in service.ProspectUpdate) (*model.SavedProspect, error) {
				Expect(pid).To(BeEquivalentTo(42))
				Expect(in.Status).To(Equal(model.ProspectStatusFollowUp))
				Expect(in.FollowUpAt).NotTo(BeNil())
				Expect(in.Prospect.Name).To(Equal("Dana"))
				return saved, nil
			}

			w := do(http.MethodPut, "/prospects/42", map[string]any{
				"name":       "Dana",
				"company":    "Acme",
				"status":     "follow-up",
				"followUpAt": "2026-06-01T09:00:00Z",
			})

			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("returns 400 for an unknown status", func() {
			w := do(http.MethodPut, "/prospects/42", map[string]any{"name": "Dana", "company": "Acme", "status": "won"})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Delete", func() {
		It("returns 204", func() {
			w := do(http.MethodDelete, "/prospects/42", nil)
			Expect(w.Code).To(Equal(http.StatusNoContent))
		})

		It("returns 404 for a missing prospect", func() {
			svc.deleteFn = func(_ context.Context, _ string, _ int64) error {
				return store.ErrNotFound
			}
			w := do(http.MethodDelete, "/prospects/42", nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("Sync", func() {
		It("replaces the list", func() {
			svc.syncFn = func(_ context.Context, userID string, ps []model.SavedProspect) ([]model.SavedProspect, error) {
				Expect(userID).To(Equal("user_1"))
				Expect(ps).To(HaveLen(2))
				Expect(ps[0].ID).To(BeEquivalentTo(77))
				Expect(ps[1].Status).To(Equal(model.ProspectStatusClosed))
				return ps, nil
			}

			w := do(http.MethodPut, "/prospects", map[string]any{
				"prospects": []map[string]any{
					{"id": "77", "name": "Dana", "company": "Acme"},
					{"name": "Sam", "company": "Acme", "status": "closed"},
				},
			})

			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("requires the prospects field", func() {
			w := do(http.MethodPut, "/prospects", map[string]any{})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("validates every entry", func() {
			w := do(http.MethodPut, "/prospects", map[string]any{
				"prospects": []map[string]any{{"name": "D", "company": "Acme"}},
			})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GenerateStrategy", func() {
		It("returns the updated prospect and the strategy", func() {
			svc.generateStrategyFn = func(_ context.Context, _ string, _ int64) (*model.SavedProspect, strategy.Result, error) {
				s := model.Strategy{ProspectSummary: "A", PainPointHypothesis: "B", PositioningStrategy: "C", ToneSuggestions: "D", FirstMessageStructure: "E"}
				p := *saved
				p.Strategy = &s
				return &p, strategy.Result{Strategy: s, Source: strategy.SourceRepaired, Recovered: 5}, nil
			}

			w := do(http.MethodPost, "/prospects/42/strategy", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["source"]).To(Equal("repaired"))
			Expect(resp["degraded"]).To(BeFalse())
			Expect(resp["prospect"].(map[string]any)["strategy"]).NotTo(BeNil())
		})

		It("returns 404 for a missing prospect", func() {
			svc.generateStrategyFn = func(_ context.Context, _ string, _ int64) (*model.SavedProspect, strategy.Result, error) {
				return nil, strategy.Result{}, store.ErrNotFound
			}

			w := do(http.MethodPost, "/prospects/42/strategy", nil)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})

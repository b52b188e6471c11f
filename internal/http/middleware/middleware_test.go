package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"pandey.app/outreach/common/logger"
	"pandey.app/outreach/internal/http/middleware"
)

var _ = Describe("Middleware", func() {
	var router *gin.Engine

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
	})

	Describe("RequestID", func() {
		var seen string

		BeforeEach(func() {
			seen = ""
			router.Use(middleware.RequestID())
			router.GET("/", func(c *gin.Context) {
				if f := logger.GetLogFields(c.Request.Context()); f.RequestID != nil {
					seen = *f.RequestID
				}
				c.Status(http.StatusOK)
			})
		})

		It("assigns an ID when none is sent", func() {
			w := serve(httptest.NewRequest(http.MethodGet, "/", nil))

			id := w.Header().Get(middleware.RequestIDHeader)
			Expect(id).To(HaveLen(36))
			Expect(seen).To(Equal(id))
		})

		It("keeps the caller's ID", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(middleware.RequestIDHeader, "req-123")

			w := serve(req)

			Expect(w.Header().Get(middleware.RequestIDHeader)).To(Equal("req-123"))
			Expect(seen).To(Equal("req-123"))
		})
	})

	Describe("RequireAPIKey", func() {
		BeforeEach(func() {
			router.Use(middleware.RequireAPIKey("secret"))
			router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		})

		It("rejects a missing key", func() {
			w := serve(httptest.NewRequest(http.MethodGet, "/", nil))
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("rejects a wrong key", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(middleware.APIKeyHeader, "nope")
			Expect(serve(req).Code).To(Equal(http.StatusUnauthorized))
		})

		It("accepts the key in X-API-Key", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(middleware.APIKeyHeader, "secret")
			Expect(serve(req).Code).To(Equal(http.StatusOK))
		})

		It("accepts a bearer token", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer secret")
			Expect(serve(req).Code).To(Equal(http.StatusOK))
		})
	})

	Describe("RequireAPIKey without a configured key", func() {
		It("lets every request through", func() {
			router.Use(middleware.RequireAPIKey(""))
			router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			Expect(serve(httptest.NewRequest(http.MethodGet, "/", nil)).Code).To(Equal(http.StatusOK))
		})
	})

	Describe("RequireUser", func() {
		var userID string

		BeforeEach(func() {
			userID = ""
			router.Use(middleware.RequireUser("X-User-ID"))
			router.GET("/", func(c *gin.Context) {
				userID = middleware.GetUserID(c)
				c.Status(http.StatusOK)
			})
		})

		It("exposes the gateway's user id", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-User-ID", "3f1c2b7e-aaaa-bbbb-cccc-1234567890ab")

			Expect(serve(req).Code).To(Equal(http.StatusOK))
			Expect(userID).To(Equal("3f1c2b7e-aaaa-bbbb-cccc-1234567890ab"))
		})

		It("returns 401 without the header", func() {
			Expect(serve(httptest.NewRequest(http.MethodGet, "/", nil)).Code).To(Equal(http.StatusUnauthorized))
		})

		It("returns 400 for ids that are not path safe", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-User-ID", "../../etc/passwd")

			Expect(serve(req).Code).To(Equal(http.StatusBadRequest))
			Expect(userID).To(BeEmpty())
		})
	})

	Describe("Recovery", func() {
		It("turns a panic into a 500 carrying the request id", func() {
			router.Use(middleware.RequestID(), middleware.Recovery())
			router.GET("/", func(c *gin.Context) { panic("boom") })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(middleware.RequestIDHeader, "req-9")
			w := serve(req)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			var body map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
			Expect(body["requestId"]).To(Equal("req-9"))
		})
	})

	Describe("Logger", func() {
		It("does not alter the response", func() {
			router.Use(middleware.Logger())
			router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

			w := serve(httptest.NewRequest(http.MethodGet, "/health", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("ok"))
		})
	})
})

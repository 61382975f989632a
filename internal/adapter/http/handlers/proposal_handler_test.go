package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flowtier/internal/adapter/http/handlers/mocks"
	"flowtier/internal/domain/entities"
	"flowtier/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func TestProposalHandler_CreateOrUpdate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc)

		r := gin.New()
		r.POST("/api/proposals", h.CreateOrUpdate)

		req := httptest.NewRequest(http.MethodPost, "/api/proposals", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("missing slug maps to 400", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc)

		r := gin.New()
		r.POST("/api/proposals", h.CreateOrUpdate)

		uc.EXPECT().CreateOrUpdate(gomock.Any(), gomock.Any(), "api").Return(entities.ProposalDocument{}, usecase.ErrMissingSlug)

		req := httptest.NewRequest(http.MethodPost, "/api/proposals", bytes.NewBufferString(`{"client":{"company":"Acme"}}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("paid proposal is locked", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc)

		r := gin.New()
		r.POST("/api/proposals", h.CreateOrUpdate)

		uc.EXPECT().CreateOrUpdate(gomock.Any(), gomock.Any(), "api").Return(entities.ProposalDocument{}, usecase.ErrProposalLocked)

		req := httptest.NewRequest(http.MethodPost, "/api/proposals", bytes.NewBufferString(`{"slug":"acme-corp"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("success forwards source header", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc)

		r := gin.New()
		r.POST("/api/proposals", h.CreateOrUpdate)

		uc.EXPECT().CreateOrUpdate(gomock.Any(), gomock.Any(), "builder").Return(entities.ProposalDocument{Slug: "acme-corp", ProposalID: "FT-2026-0001"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/proposals", bytes.NewBufferString(`{"slug":"Acme Corp"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Source", "builder")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if body["slug"] != "acme-corp" {
			t.Fatalf("expected sanitized slug in response, got %v", body["slug"])
		}
		if body["success"] != true {
			t.Fatalf("expected success=true, got %v", body["success"])
		}
	})
}

func TestProposalHandler_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc)

		r := gin.New()
		r.GET("/api/proposals/:slug", h.Get)

		uc.EXPECT().GetBySlug(gomock.Any(), "missing").Return(entities.ProposalDocument{}, usecase.ErrProposalNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/proposals/missing", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success returns full document", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc)

		r := gin.New()
		r.GET("/api/proposals/:slug", h.Get)

		uc.EXPECT().GetBySlug(gomock.Any(), "acme-corp").Return(entities.ProposalDocument{Slug: "acme-corp", Status: entities.ProposalStatusPending}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/proposals/acme-corp", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var doc entities.ProposalDocument
		if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if doc.Slug != "acme-corp" {
			t.Fatalf("unexpected slug %q", doc.Slug)
		}
	})
}

func TestProposalHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("empty store yields empty array", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc)

		r := gin.New()
		r.GET("/api/proposals", h.List)

		uc.EXPECT().List(gomock.Any()).Return(nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/proposals", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body struct {
			Proposals []entities.ProposalSummary `json:"proposals"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if body.Proposals == nil {
			t.Fatal("expected proposals to be an empty array, not null")
		}
	})
}

func TestProposalHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc)

		r := gin.New()
		r.DELETE("/api/proposals/:slug", h.Delete)

		uc.EXPECT().Delete(gomock.Any(), "missing").Return(usecase.ErrProposalNotFound)

		req := httptest.NewRequest(http.MethodDelete, "/api/proposals/missing", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc)

		r := gin.New()
		r.DELETE("/api/proposals/:slug", h.Delete)

		uc.EXPECT().Delete(gomock.Any(), "acme-corp").Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/proposals/acme-corp", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestProposalHandler_Sign(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc)

		r := gin.New()
		r.POST("/api/proposals/:slug/sign", h.Sign)

		req := httptest.NewRequest(http.MethodPost, "/api/proposals/acme-corp/sign", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("already signed maps to 409", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc)

		r := gin.New()
		r.POST("/api/proposals/:slug/sign", h.Sign)

		uc.EXPECT().Sign(gomock.Any(), "acme-corp", gomock.Any()).Return(entities.Signature{}, usecase.ErrAlreadySigned)

		req := httptest.NewRequest(http.MethodPost, "/api/proposals/acme-corp/sign", bytes.NewBufferString(`{"name":"Jane","email":"jane@acme.test"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("success returns signature", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc)

		r := gin.New()
		r.POST("/api/proposals/:slug/sign", h.Sign)

		signedAt := time.Now().UTC()
		uc.EXPECT().Sign(gomock.Any(), "acme-corp", gomock.Any()).DoAndReturn(
			func(_ any, _ string, cmd usecase.SignCommand) (entities.Signature, error) {
				if cmd.Name != "Jane" || cmd.Email != "jane@acme.test" {
					t.Fatalf("unexpected command %+v", cmd)
				}
				return entities.Signature{Name: cmd.Name, Email: cmd.Email, Kind: entities.SignatureKindTyped, SignedAt: signedAt}, nil
			})

		req := httptest.NewRequest(http.MethodPost, "/api/proposals/acme-corp/sign", bytes.NewBufferString(`{"name":"Jane","email":"jane@acme.test"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})
}

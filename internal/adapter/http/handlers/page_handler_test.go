package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flowtier/internal/adapter/http/handlers/mocks"
	"flowtier/internal/domain/entities"
	"flowtier/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func newPageRouter(h *PageHandler) *gin.Engine {
	r := gin.New()
	r.NoRoute(h.ServeProposalPage)
	return r
}

func TestPageHandler_ServeProposalPage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("existing slug serves html shell", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewPageHandler(uc, t.TempDir())

		uc.EXPECT().GetBySlug(gomock.Any(), "acme-corp").Return(entities.ProposalDocument{Slug: "acme-corp"}, nil)

		w := httptest.NewRecorder()
		newPageRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/acme-corp", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Fatalf("expected html content type, got %q", ct)
		}
		if !strings.Contains(w.Body.String(), "proposal-root") {
			t.Fatal("expected the proposal shell markup")
		}
	})

	t.Run("static proposal page wins over inline shell", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)

		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "proposal.html"), []byte("<html>custom shell</html>"), 0o644); err != nil {
			t.Fatal(err)
		}
		h := NewPageHandler(uc, dir)

		uc.EXPECT().GetBySlug(gomock.Any(), "acme-corp").Return(entities.ProposalDocument{Slug: "acme-corp"}, nil)

		w := httptest.NewRecorder()
		newPageRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/acme-corp", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "custom shell") {
			t.Fatal("expected the static page to be served")
		}
	})

	t.Run("unknown slug is a 404", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewPageHandler(uc, t.TempDir())

		uc.EXPECT().GetBySlug(gomock.Any(), "missing").Return(entities.ProposalDocument{}, usecase.ErrProposalNotFound)

		w := httptest.NewRecorder()
		newPageRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("reserved paths never hit the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewPageHandler(uc, t.TempDir())

		for _, path := range []string{"/favicon.ico", "/robots.txt", "/builder", "/login"} {
			w := httptest.NewRecorder()
			newPageRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			if w.Code != http.StatusNotFound {
				t.Fatalf("expected 404 for %s, got %d", path, w.Code)
			}
		}
	})

	t.Run("nested and uppercase paths are rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewPageHandler(uc, t.TempDir())

		for _, path := range []string{"/a/b", "/Acme-Corp", "/acme_corp"} {
			w := httptest.NewRecorder()
			newPageRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			if w.Code != http.StatusNotFound {
				t.Fatalf("expected 404 for %s, got %d", path, w.Code)
			}
		}
	})

	t.Run("non-GET methods are a 404", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewPageHandler(uc, t.TempDir())

		w := httptest.NewRecorder()
		newPageRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/acme-corp", nil))

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}

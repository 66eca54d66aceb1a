package v1

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go_rdns/api/v1/reverse"
	"go_rdns/internal/auth"
	"go_rdns/internal/db/dbtest"
	"go_rdns/internal/dns"
	"go_rdns/internal/dns/dnstest"
	"go_rdns/internal/records"
	svc "go_rdns/internal/reverse"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	l := logrus.New()
	l.SetOutput(io.Discard)
	entry := logrus.NewEntry(l)

	service := svc.NewService(&svc.Config{
		Store:     records.NewStore(dbtest.Open(t)),
		Resolver:  dns.NewPTRResolver(dnstest.NewStubResolver(), 1, entry),
		Logger:    entry,
		TTL:       3600,
		MinPrefix: 16,
	})

	r := gin.New()
	SetupRouter(r, reverse.NewHandler(service, entry), auth.NewBasicAuthenticator("admin", "secret", ""), entry)
	return r
}

func TestSetupRouter_RequiresAuth(t *testing.T) {
	r := setupTestRouter(t)

	bodies := map[string]string{
		"/buscar-reverso": `{"cidr":"10.0.0.0/30"}`,
		"/gravar":         `{"domain_id":1,"registros":[]}`,
		"/importar":       `{"cidr":"10.0.0.0/30","domain_id":1}`,
	}

	for path, body := range bodies {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", path, bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
			}
			if w.Header().Get("WWW-Authenticate") == "" {
				t.Error("Expected WWW-Authenticate header")
			}

			w = httptest.NewRecorder()
			req, _ = http.NewRequest("POST", path, bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			req.SetBasicAuth("admin", "secret")
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected status %d with credentials, got %d: %s", http.StatusOK, w.Code, w.Body.String())
			}
		})
	}
}

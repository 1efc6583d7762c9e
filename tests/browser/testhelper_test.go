package browser_test

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	"academia/internal/adapters/api"
	emailAdapter "academia/internal/adapters/email"
	web "academia/internal/adapters/http"
	"academia/internal/adapters/http/middleware"
	"academia/internal/adapters/perf"
	"academia/internal/adapters/storage"
	sessionStore "academia/internal/adapters/storage/session"
)

const (
	testAdminEmail    = "admin@academia.test"
	testAdminPassword = "secreto123"

	// 32 bytes hex-encoded, only ever used against the fake backend.
	testCSRFKey = "4d6f6e64617954756573646179313233344d6f6e646179547565736461793132"
)

// fakeBackend is an in-memory stand-in for the REST backend the dashboard
// consumes. It speaks just enough of the backend's wire dialect for the
// browser flows under test: JWT login, the joined horarios listing, and
// plain CRUD on the remaining collections.
type fakeBackend struct {
	mu     sync.Mutex
	nextID int64

	horarios    []map[string]any
	disciplinas []map[string]any
	usuarios    []map[string]any
	alumnos     []map[string]any
	profesores  []map[string]any
	pagos       []map[string]any
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextID: 100,
		disciplinas: []map[string]any{
			{"id_disciplina": int64(1), "nombre_disciplina": "Kickboxing", "descripcion": "Golpes de puño y pierna."},
			{"id_disciplina": int64(2), "nombre_disciplina": "Muay Thai", "descripcion": "El arte de las ocho extremidades."},
			{"id_disciplina": int64(3), "nombre_disciplina": "Boxeo", "descripcion": "Boxeo clásico."},
		},
		usuarios: []map[string]any{
			{"id_usuario": int64(1), "nombre": "Admin", "email": testAdminEmail, "rol": "admin"},
			{"id_usuario": int64(2), "nombre": "Juan Pérez", "email": "juan@academia.test", "rol": "profesor"},
		},
		alumnos: []map[string]any{
			{"id_alumno": int64(1), "nombre": "Ana", "apellido": "García", "email": "ana@example.com", "telefono": "111", "fecha_nacimiento": "1999-04-12", "id_disciplina": int64(1)},
			{"id_alumno": int64(2), "nombre": "Bruno", "apellido": "Díaz", "email": "bruno@example.com", "telefono": "222", "fecha_nacimiento": "2001-09-30", "id_disciplina": int64(2)},
		},
		profesores: []map[string]any{
			{"id_profesor": int64(1), "nombre": "Juan Pérez", "email": "juan@academia.test", "telefono": "333"},
		},
		pagos: []map[string]any{
			{"id_pago": int64(1), "id_alumno": int64(1), "monto": 1500.0, "fecha_pago": "2026-08-01", "metodo": "efectivo",
				"alumnos": map[string]any{"nombre": "Ana", "apellido": "García"}},
		},
	}
}

// seedHorario registers one schedule record directly, bypassing HTTP.
func (b *fakeBackend) seedHorario(diaYHora string, disciplinaID, profesorID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.horarios = append(b.horarios, map[string]any{
		"id_horario":    b.nextID,
		"dia_y_hora":    diaYHora,
		"id_disciplina": disciplinaID,
		"id_profesor":   profesorID,
	})
}

func (b *fakeBackend) horarioCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.horarios)
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")

	if path == "/login" && r.Method == http.MethodPost {
		b.handleLogin(w, r)
		return
	}
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		// Public pages list horarios and diciplinas without a token.
		if r.Method != http.MethodGet {
			http.Error(w, `{"error":"no autorizado"}`, http.StatusUnauthorized)
			return
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	head, id := splitResourcePath(path)
	switch head {
	case "horarios":
		b.serveHorarios(w, r, id)
	case "diciplinas":
		writeJSON(w, http.StatusOK, b.disciplinas)
	case "usuarios":
		b.usuarios = serveCollection(w, r, b.usuarios, "id_usuario", id, &b.nextID)
	case "alumnos":
		b.alumnos = serveCollection(w, r, b.alumnos, "id_alumno", id, &b.nextID)
	case "profesores":
		b.profesores = serveCollection(w, r, b.profesores, "id_profesor", id, &b.nextID)
	case "pagos":
		b.pagos = serveCollection(w, r, b.pagos, "id_pago", id, &b.nextID)
	default:
		http.NotFound(w, r)
	}
}

func (b *fakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"contrasena"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, `{"error":"solicitud inválida"}`, http.StatusBadRequest)
		return
	}
	if creds.Email != testAdminEmail || creds.Password != testAdminPassword {
		http.Error(w, `{"error":"credenciales inválidas"}`, http.StatusUnauthorized)
		return
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"nombre": "Admin",
		"email":  testAdminEmail,
		"rol":    "admin",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("fake-backend-secret"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": signed})
}

// serveHorarios handles the schedule endpoints. The GET response joins the
// discipline and instructor names the way the real backend does.
func (b *fakeBackend) serveHorarios(w http.ResponseWriter, r *http.Request, id string) {
	switch {
	case r.Method == http.MethodGet && id == "":
		out := make([]map[string]any, 0, len(b.horarios))
		for _, h := range b.horarios {
			out = append(out, map[string]any{
				"id_horario":    h["id_horario"],
				"dia_y_hora":    h["dia_y_hora"],
				"id_disciplina": h["id_disciplina"],
				"id_profesor":   h["id_profesor"],
				"disciplinas":   map[string]any{"nombre_disciplina": b.lookupName(b.disciplinas, "id_disciplina", "nombre_disciplina", h["id_disciplina"])},
				"profesores":    map[string]any{"nombre": b.lookupName(b.profesores, "id_profesor", "nombre", h["id_profesor"])},
			})
		}
		writeJSON(w, http.StatusOK, out)
	case r.Method == http.MethodPost:
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.nextID++
		payload["id_horario"] = b.nextID
		b.horarios = append(b.horarios, payload)
		writeJSON(w, http.StatusCreated, payload)
	case r.Method == http.MethodPut && id != "":
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for _, h := range b.horarios {
			if fmt.Sprint(h["id_horario"]) == id {
				for k, v := range payload {
					h[k] = v
				}
			}
		}
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodDelete && id != "":
		kept := b.horarios[:0]
		for _, h := range b.horarios {
			if fmt.Sprint(h["id_horario"]) != id {
				kept = append(kept, h)
			}
		}
		b.horarios = kept
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func (b *fakeBackend) lookupName(rows []map[string]any, idField, nameField string, id any) string {
	for _, row := range rows {
		if fmt.Sprint(row[idField]) == fmt.Sprint(id) {
			name, _ := row[nameField].(string)
			return name
		}
	}
	return ""
}

// serveCollection implements list/create/update/delete over one in-memory
// collection and returns the possibly modified slice.
func serveCollection(w http.ResponseWriter, r *http.Request, rows []map[string]any, idField, id string, nextID *int64) []map[string]any {
	switch {
	case r.Method == http.MethodGet && id == "":
		writeJSON(w, http.StatusOK, rows)
	case r.Method == http.MethodPost:
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return rows
		}
		*nextID++
		payload[idField] = *nextID
		rows = append(rows, payload)
		writeJSON(w, http.StatusCreated, payload)
	case r.Method == http.MethodPut && id != "":
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return rows
		}
		for _, row := range rows {
			if fmt.Sprint(row[idField]) == id {
				for k, v := range payload {
					if k != idField {
						row[k] = v
					}
				}
			}
		}
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodDelete && id != "":
		kept := rows[:0]
		for _, row := range rows {
			if fmt.Sprint(row[idField]) != id {
				kept = append(kept, row)
			}
		}
		rows = kept
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
	return rows
}

// splitResourcePath turns "/horarios/3" into ("horarios", "3").
func splitResourcePath(path string) (string, string) {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// testApp holds the running server, the fake backend and Playwright handles.
type testApp struct {
	BaseURL string
	Backend *fakeBackend
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// newTestApp wires the full app against a fake backend and a temp session
// database, starts it on a free port and launches a headless browser.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	backend := newFakeBackend()
	backendSrv := httptest.NewServer(backend)
	t.Cleanup(backendSrv.Close)

	db, err := storage.Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("failed to open session DB: %v", err)
	}
	sessions := sessionStore.NewSQLiteStore(db)

	client := api.NewClient(backendSrv.URL+"/api", api.DefaultHTTPClient(5*time.Second))
	backends := &web.Backends{
		Horarios:  api.NewHorarioAPI(client),
		Master:    api.NewMasterDataAPI(client),
		Resources: api.NewResourceAPI(client),
		Auth:      api.NewAuthAPI(client),
	}
	web.SetEmailSender(emailAdapter.NewNoopSender(), "test@academia.test", "info@academia.test")

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// Relative template and static paths resolve from the project root.
	projectRoot := findProjectRoot(t)
	origDir, _ := os.Getwd()
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("failed to chdir to project root: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	middleware.ExtraTrustedOrigins = append(middleware.ExtraTrustedOrigins,
		fmt.Sprintf("127.0.0.1:%d", port),
		fmt.Sprintf("localhost:%d", port),
	)

	mux := web.NewMux(web.Config{
		Env:                "local",
		StaticDir:          "static",
		CSRFKey:            testCSRFKey,
		RateLimitPerSecond: 1000,
		SessionTTL:         time.Hour,
	}, sessions, backends, perf.NewCollector(perf.DefaultRingSize))

	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		Backend: backend,
		Server:  srv,
		PW:      pw,
		Browser: browser,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login navigates to the login page and signs in as the admin account the
// fake backend accepts.
func (a *testApp) login(t *testing.T, page playwright.Page) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=Email]").Fill(testAdminEmail); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=Password]").Fill(testAdminPassword); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/admin", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to the dashboard: %v", err)
	}
}

// apiGet fetches a JSON endpoint from inside the page, riding the session
// cookie.
func apiGet(t *testing.T, page playwright.Page, url string) interface{} {
	t.Helper()
	result, err := page.Evaluate(fmt.Sprintf(`async () => {
		const r = await fetch('%s', {headers: {'Accept': 'application/json', 'Content-Type': 'application/json'}});
		return await r.json();
	}`, url))
	if err != nil {
		t.Fatalf("apiGet %s failed: %v", url, err)
	}
	return result
}

// findProjectRoot walks up from the working directory to find the project root (contains go.mod).
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}

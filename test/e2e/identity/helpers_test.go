package identity_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/adoptly/adoptly/pkg/identitysdk"
	"github.com/adoptly/adoptly/pkg/internalx"
)

/*
 * Common constants and helper functions for identity service end-to-end
 * tests: container setup, raw HTTP helpers and SDK construction.
 */

const (
	testImageName = "adoptly-identity-test:latest"

	testJWTSecret   = "e2e-jwt-secret-0123456789abcdef0123456789"
	testInternalKey = "e2e-internal-key-12345"
	testPassword    = "CorrectHorseBattery1"
)

// TestMain builds the Docker image once before all tests and removes it
// after they complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building identity service Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up identity service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/identity/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil
	return cmd.Run()
}

func cleanupDockerImage() {
	_ = exec.Command("docker", "rmi", "-f", testImageName).Run()
}

// setupIdentityContainer starts the identity service in a container and
// returns its base URL. Rate limits are raised so rapid test requests do
// not trip the production profiles.
func setupIdentityContainer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"JWT_SECRET":       testJWTSecret,
			"INTERNAL_API_KEY": testInternalKey,
			"DATABASE_FILE":    "/tmp/identity.db",
			"APP_ENV":          "test",
			"LOG_LEVEL":        "info",
			"LOG_FORMAT":       "json",
			"ROOT_DOMAIN":      "example.com",
			"LOGIN_URL":        "https://www.example.com/login",

			"RATELIMIT_STRICT_REQUESTS":   "1000",
			"RATELIMIT_STRICT_BURST":      "1000",
			"RATELIMIT_MODERATE_REQUESTS": "1000",
			"RATELIMIT_MODERATE_BURST":    "1000",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// newSDK returns a plain identity client for the user-facing endpoints.
func newSDK(baseURL string) *identitysdk.Client {
	return identitysdk.NewClient(baseURL, nil)
}

// newInternalSDK returns a client whose requests carry the shared key, so
// the /internal endpoints accept them.
func newInternalSDK(t *testing.T, baseURL string) *identitysdk.Client {
	t.Helper()
	factory, err := internalx.NewFactory(testInternalKey, "e2e")
	require.NoError(t, err)
	return identitysdk.NewClient(baseURL, factory.Client())
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// postJSON issues a raw POST and returns the response plus decoded envelope.
// The SDK hides cookies and status codes; some assertions need them.
func postJSON(t *testing.T, url string, body any) (*http.Response, envelope) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

// registerUser creates an account through the API and returns the token pair.
func registerUser(t *testing.T, baseURL, email string) *identitysdk.TokenResult {
	t.Helper()

	resp, env := postJSON(t, baseURL+"/api/auth/register", map[string]string{
		"email":    email,
		"password": testPassword,
		"userType": "adopter",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	require.True(t, env.Success)

	var result identitysdk.TokenResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)
	return &result
}

// cookieNames collects the names of cookies set on a response.
func cookieNames(resp *http.Response) map[string]*http.Cookie {
	out := make(map[string]*http.Cookie)
	for _, c := range resp.Cookies() {
		out[c.Name] = c
	}
	return out
}

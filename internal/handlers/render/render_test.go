package render

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_JSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		data := map[string]any{"key1": 1, "key2": "222"}
		JSON(w, data)
	}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/test")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"key1":1,"key2":"222"}`+"\n", string(body))
}

func TestRender_JSONWithStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		JSONWithStatus(w, map[string]bool{"created": true}, http.StatusCreated)
	}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/test")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.JSONEq(t, `{"created": true}`, string(body))
}

func TestRender_ServiceError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		message := "something terrible happened"
		ServiceError(w, message, http.StatusForbidden)
	}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/test")
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{
			"error": "service_error",
			"message": "something terrible happened"
		}`,
		string(body),
	)
}

func TestRender_DecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value := struct {
			Key    string `json:"key"`
			Amount int    `json:"amount"`
		}{}

		err := json.NewDecoder(r.Body).Decode(&value)
		require.Error(t, err, "Please check what JSON was sent. Test expected that it is invalid")
		DecodeError(w, err)
	}))
	defer ts.Close()

	tests := []struct {
		name        string
		requestBody string
		expected    string
	}{
		{
			name:        "json parsing error",
			requestBody: `invalid-json`,
			expected: `{
				"error":"decoding_failed",
				"message": "Failed to parse JSON: invalid character 'i' looking for beginning of value"
			}`,
		},
		{
			name:        "invalid type ok",
			requestBody: `{"key": "valid_json", "amount": "but incorrect type"}`,
			expected: `{
				"error": "decoding_failed",
				"message": "Invalid data type for field 'amount'"
			}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/test", "application/json", strings.NewReader(tc.requestBody))
			require.NoError(t, err)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer resp.Body.Close() //nolint:errcheck

			assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
			assert.JSONEq(t, tc.expected, string(body))
		})
	}
}

func TestRender_BindAndValidate(t *testing.T) {
	type User struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	tests := []struct {
		name           string
		requestBody    string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "valid request",
			requestBody:    `{"email": "john@example.com", "password": "secret-pass"}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success": true}`,
		},
		{
			name:           "invalid json",
			requestBody:    `invalid-json`,
			expectedStatus: http.StatusBadRequest,
			expectedBody: `{
				"error": "decoding_failed",
				"message": "Failed to parse JSON: invalid character 'i' looking for beginning of value"
			}`,
		},
		{
			name:           "validation failed reports on json tag names",
			requestBody:    `{"email": "not-an-email", "password": "123"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody: `{
				"error": "validation_failed",
				"message": "Request validation failed",
				"fields": {
					"email": "Invalid email address",
					"password": "Value is too short (minimum 6)"
				}
			}`,
		},
		{
			name:           "missing fields",
			requestBody:    `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody: `{
				"error": "validation_failed",
				"message": "Request validation failed",
				"fields": {
					"email": "This field is required",
					"password": "This field is required"
				}
			}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, err := BindAndValidate[User](w, r)
				if err != nil {
					return // Error response already written
				}
				JSON(w, map[string]bool{"success": true})
			}))
			defer ts.Close()

			resp, err := http.Post(ts.URL+"/test", "application/json", strings.NewReader(tc.requestBody))
			require.NoError(t, err)
			require.Equal(t, tc.expectedStatus, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer resp.Body.Close() //nolint:errcheck

			assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
			assert.JSONEq(t, tc.expectedBody, string(body))
		})
	}
}

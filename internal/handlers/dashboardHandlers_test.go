package handlers

import (
	"bytes"
	"encoding/csv"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginCookies(t *testing.T, env *testEnv) []*http.Cookie {
	t.Helper()
	env.postForm("/signup", signupForm("9876543210", "user@gmail.com", "Abcdef1234"))
	env.postForm("/login", url.Values{"step": {"send_otp"}, "email": {"user@gmail.com"}})
	rr := env.postForm("/login", url.Values{"step": {"verify_otp"}, "email": {"user@gmail.com"}, "otp": {env.email.lastCode}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	return rr.Result().Cookies()
}

func TestDashboardManualIngestion(t *testing.T) {
	env := newTestEnv(t, false)
	cookies := loginCookies(t, env)

	rr := env.postForm("/", url.Values{"form_type": {"single"}, "lat": {"20.5"}, "lon": {"78.9"}}, cookies...)
	require.Equal(t, http.StatusOK, rr.Code)
	state := decodeState(t, rr)
	assert.Equal(t, "Inside India", state["message"])

	rr = env.postForm("/", url.Values{"form_type": {"single"}, "lat": {"51.5"}, "lon": {"-0.12"}}, cookies...)
	state = decodeState(t, rr)
	assert.Equal(t, "Outside India (saved)", state["message"])
	assert.Len(t, state["points"], 2)
	assert.Len(t, state["outside_points"], 1)
}

func TestDashboardManualValidation(t *testing.T) {
	env := newTestEnv(t, false)
	cookies := loginCookies(t, env)

	rr := env.postForm("/", url.Values{"form_type": {"single"}, "lat": {""}, "lon": {"78.9"}}, cookies...)
	state := decodeState(t, rr)
	assert.Equal(t, "Please enter both latitude and longitude.", state["message"])

	rr = env.postForm("/", url.Values{"form_type": {"single"}, "lat": {"abc"}, "lon": {"78.9"}}, cookies...)
	state = decodeState(t, rr)
	assert.Equal(t, "Latitude/Longitude must be numeric", state["message"])
	// rejected input is echoed back
	assert.Equal(t, "abc", state["last_lat"])
	assert.Len(t, state["points"], 0)
}

func TestDashboardCSVUpload(t *testing.T) {
	env := newTestEnv(t, false)
	cookies := loginCookies(t, env)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("form_type", "csv"))
	fw, err := mw.CreateFormFile("csv_file", "points.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("10,80\nbad,row\n40,100"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	state := decodeState(t, rr)
	assert.Equal(t, "CSV rows: 2, added: 2, outside India: 1", state["message"])
}

func TestDownloadAllCSV(t *testing.T) {
	env := newTestEnv(t, false)
	cookies := loginCookies(t, env)
	env.postForm("/", url.Values{"form_type": {"single"}, "lat": {"20.5"}, "lon": {"78.9"}}, cookies...)
	env.postForm("/", url.Values{"form_type": {"single"}, "lat": {"51.5"}, "lon": {"-0.12"}}, cookies...)

	rr := env.get("/download-all-csv", cookies...)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=all_points_india.csv", rr.Header().Get("Content-Disposition"))

	rows, err := csv.NewReader(rr.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Yes", rows[1][3])
	assert.Equal(t, "No", rows[2][3])
	assert.Equal(t, "input", rows[1][5])
}

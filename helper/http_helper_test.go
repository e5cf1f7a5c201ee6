package helper

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"prd-workspace/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnderscore(t *testing.T) {
	tests := map[string]string{
		"Title":             "title",
		"BaseVersion":       "base_version",
		"ChangeDescription": "change_description",
		"UserID":            "user_id",
		"ID":                "id",
	}
	for in, want := range tests {
		assert.Equal(t, want, Underscore(in), in)
	}
}

func TestGetStatusCode(t *testing.T) {
	h := NewHTTPHelper()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", models.DocumentNotFound(uuid.New()), http.StatusNotFound},
		{"validation", models.ErrorValidation{Reason: models.EmptyField}, http.StatusUnprocessableEntity},
		{"conflict", models.ErrorConflict{ExpectedVersion: 1, ActualVersion: 2}, http.StatusConflict},
		{"unauthorized", models.ErrorUnauthorized{Message: "no"}, http.StatusUnauthorized},
		{"storage", models.ErrorStorage{Op: "load", Err: errors.New("boom")}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.GetStatusCode(tt.err))
		})
	}
}

func TestSendError_HidesStorageCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHTTPHelper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	require.NoError(t, h.SendError(c, models.ErrorStorage{Op: "load", Err: errors.New("password=hunter2")}))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter2")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "storageError", body["code_type"])
}

func TestSendError_FieldValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHTTPHelper()

	err := h.ValidateStruct(models.UpdateStatusRequest{Status: "published"})
	require.Error(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	require.NoError(t, h.SendError(c, err))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		CodeType    string              `json:"code_type"`
		CodeMessage map[string][]string `json:"code_message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validationError", body.CodeType)
	assert.Len(t, body.CodeMessage["status"], 1)
}

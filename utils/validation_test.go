package utils

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/menu-api/models"
)

func bindBody(t *testing.T, body string) error {
	t.Helper()
	RegisterValidators()
	req := httptest.NewRequest(http.MethodPost, "/menu", bytes.NewBufferString(body))
	var in models.MenuItemCreate
	return binding.JSON.Bind(req, &in)
}

func TestWireFieldName(t *testing.T) {
	typ := reflect.TypeOf(struct {
		A string `json:"alpha,omitempty"`
		B string `form:"beta"`
		C string `json:"-"`
		D string
	}{})
	assert.Equal(t, "alpha", wireFieldName(typ.Field(0)))
	assert.Equal(t, "beta", wireFieldName(typ.Field(1)))
	assert.Equal(t, "", wireFieldName(typ.Field(2)))
	assert.Equal(t, "D", wireFieldName(typ.Field(3)))
}

func TestValidationDetailsFieldErrors(t *testing.T) {
	err := bindBody(t, `{"category": "Kosher", "price_cents": -1, "spice": ""}`)
	require.Error(t, err)

	details := ValidationDetails(LocBody, err)
	require.Len(t, details, 3)
	assert.Equal(t, ValidationDetail{Loc: []string{"body", "name"}, Msg: "field required", Type: "missing"}, details[0])
	assert.Equal(t, ValidationDetail{Loc: []string{"body", "category"}, Msg: "must be one of: Halal, Non-Halal", Type: "enum"}, details[1])
	assert.Equal(t, ValidationDetail{Loc: []string{"body", "price_cents"}, Msg: "must be greater than or equal to 0", Type: "min"}, details[2])
}

func TestValidationDetailsAcceptsValidBody(t *testing.T) {
	assert.NoError(t, bindBody(t, `{"name": "Chicken Gyro", "category": "Non-Halal", "price_cents": 0}`))
}

func TestValidationDetailsDecodeErrors(t *testing.T) {
	err := bindBody(t, `{"name": "Gyro", "category": "Halal", "price_cents": "cheap"}`)
	assert.Equal(t, FieldDetail(LocBody, "price_cents", "must be of type integer", "type_error"), ValidationDetails(LocBody, err))

	err = bindBody(t, `{"name": `)
	assert.Equal(t, "json_invalid", ValidationDetails(LocBody, err)[0].Type)

	err = bindBody(t, `{"name" "Gyro"}`)
	assert.Equal(t, "json_invalid", ValidationDetails(LocBody, err)[0].Type)

	assert.Equal(t, "missing", ValidationDetails(LocBody, io.EOF)[0].Type)
	assert.Equal(t, []ValidationDetail{{Loc: []string{"query"}, Msg: "odd", Type: "value_error"}},
		ValidationDetails(LocQuery, errors.New("odd")))
}

func TestRespondInternalHidesCause(t *testing.T) {
	var logs bytes.Buffer
	ErrorLogger = logrus.New()
	ErrorLogger.SetOutput(&logs)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/menu", nil)

	RespondInternal(c, errors.New("dial tcp 127.0.0.1:3306: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Internal Server Error"}`, w.Body.String())
	assert.Contains(t, logs.String(), "connection refused")
	assert.True(t, c.IsAborted())
}

func TestInitLoggerLevels(t *testing.T) {
	InitLogger("debug")
	assert.Equal(t, logrus.DebugLevel, InfoLogger.GetLevel())
	assert.Equal(t, logrus.ErrorLevel, ErrorLogger.GetLevel())

	InitLogger("loud")
	assert.Equal(t, logrus.InfoLevel, InfoLogger.GetLevel())
}

package serdser_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/futuremech/fmweb/pkg/adapter/restful/gin/serdser"
	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	Name   string           `form:"name" json:"name" binding:"required"`
	Price  *serdser.Decimal `form:"price" json:"price" binding:"required"`
	Active serdser.Flag     `form:"is_active" json:"is_active"`
}

type failure struct {
	Success bool
	Error   string
	Fields  map[string][]string
}

func bind(t *testing.T, ct, body string) (*form, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", ct)
	c.Request = req
	f := &form{}
	if !serdser.Bind(c, f, nil) {
		return nil, w
	}
	return f, w
}

func TestBindForm(t *testing.T) {
	body := url.Values{
		"name": {"Oil"}, "price": {" 12.50 "}, "is_active": {"on"},
	}.Encode()
	f, _ := bind(t, "application/x-www-form-urlencoded", body)
	require.NotNil(t, f)
	assert.Equal(t, "Oil", f.Name)
	assert.Equal(t, "12.5", f.Price.String())
	assert.True(t, bool(f.Active))
}

func TestBindJSON(t *testing.T) {
	f, _ := bind(t, "application/json", `{"name":"Oil","price":3.25,"is_active":"0"}`)
	require.NotNil(t, f)
	assert.Equal(t, "3.25", f.Price.String())
	assert.False(t, bool(f.Active))
}

func TestBindReportsFields(t *testing.T) {
	f, w := bind(t, "application/x-www-form-urlencoded", "name=Oil")
	assert.Nil(t, f)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	res := &failure{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), res))
	assert.False(t, res.Success)
	require.Len(t, res.Fields["Price"], 1)
	assert.Contains(t, res.Fields["Price"][0], "'required' tag")
}

func TestSerErr(t *testing.T) {
	for _, tc := range []struct {
		err    error
		status int
		msg    string
	}{
		{cerr.NotFoundf("booking 3 not found"), 404, "booking 3 not found"},
		{cerr.Conflict(errors.New("taken")), 409, "taken"},
		{errors.New("connection refused"), 500, "internal server error"},
	} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
		serdser.SerErr(c, tc.err)
		assert.Equal(t, tc.status, w.Code)
		res := &failure{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), res))
		assert.Equal(t, tc.msg, res.Error)
	}
}

package request

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type body struct {
	Email  string `json:"email" validate:"required,email"`
	Guests int    `json:"guests" validate:"min=1"`
}

func serve(t *testing.T, payload string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x/:id", func(c *gin.Context) {
		if _, ok := ParamID(c, "id"); !ok {
			return
		}
		var req body
		if !BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x/5", strings.NewReader(payload)))
	return w
}

func TestBindJSON(t *testing.T) {
	assert.Equal(t, http.StatusNoContent, serve(t, `{"email":"a@b.co","guests":2}`).Code)

	w := serve(t, `{"email":"nope","guests":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"guests":"min"`)
	assert.Contains(t, w.Body.String(), `"email":"email"`)

	w = serve(t, `{"email":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}

func TestIDList(t *testing.T) {
	ids, err := IDList(" 1, 2,,3 ")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	_, err = IDList("1,x")
	assert.Error(t, err)

	ids, err = IDList("")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

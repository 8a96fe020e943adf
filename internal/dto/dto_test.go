package dto

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Request bodies are checked by internal/validation; struct tags only describe the wire shape.
func TestRequestStructsCarryOnlyWireTags(t *testing.T) {
	for _, v := range []any{AnswerRequest{}, SelectQuestionRequest{}, RefreshTokenRequest{}, StartAttemptRequest{}, Pagination{}} {
		typ := reflect.TypeOf(v)
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			_, has := f.Tag.Lookup("validate")
			assert.False(t, has, "%s.%s", typ.Name(), f.Name)
		}
	}
}

func TestPaginationJSON(t *testing.T) {
	raw, err := json.Marshal(Pagination{Limit: 20, Offset: 40})
	require.NoError(t, err)
	assert.JSONEq(t, `{"limit":20,"offset":40}`, string(raw))
}

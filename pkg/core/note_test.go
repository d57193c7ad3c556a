package core_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/notesync/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNote_UnmarshalID(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain id", `{"id":"x1","title":"A"}`, "x1"},
		{"mongo id", `{"_id":"64f0c2","title":"A"}`, "64f0c2"},
		{"id wins over _id", `{"id":"x1","_id":"other"}`, "x1"},
		{"numeric id", `{"id":42}`, "42"},
		{"missing id", `{"title":"A"}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var n core.Note
			require.NoError(t, json.Unmarshal([]byte(tc.in), &n))
			assert.Equal(t, tc.want, n.ID)
		})
	}
}

func TestNote_ExtraFieldsSurvive(t *testing.T) {
	in := `{"_id":"n1","user":"u7","title":"T","description":"D","tag":"general","date":"2024-01-02T03:04:05Z","__v":0}`

	var n core.Note
	require.NoError(t, json.Unmarshal([]byte(in), &n))

	assert.Equal(t, "n1", n.ID)
	assert.Equal(t, "general", n.Tag)
	assert.Len(t, n.Extra, 3)
	assert.JSONEq(t, `"u7"`, string(n.Extra["user"]))

	out, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"_id":"n1","user":"u7","title":"T","description":"D","tag":"general","date":"2024-01-02T03:04:05Z","__v":0}`,
		string(out))
}

func TestNote_IDKeyRoundTrips(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain id", `{"id":"a1","title":"T"}`, `{"id":"a1","title":"T","description":"","tag":""}`},
		{"mongo id", `{"_id":"a1","title":"T"}`, `{"_id":"a1","title":"T","description":"","tag":""}`},
		{"id wins over _id", `{"id":"a1","_id":"other"}`, `{"id":"a1","title":"","description":"","tag":""}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var n core.Note
			require.NoError(t, json.Unmarshal([]byte(tc.in), &n))

			out, err := json.Marshal(n.Clone())
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(out))
		})
	}

	out, err := json.Marshal(core.Note{ID: "lit"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"lit","title":"","description":"","tag":""}`, string(out))
}

func TestNote_NoExtraKeepsNilMap(t *testing.T) {
	var n core.Note
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x1","title":"A","description":"d","tag":"t"}`), &n))
	assert.Equal(t, core.Note{ID: "x1", Title: "A", Description: "d", Tag: "t"}, n)
}

func TestNote_RejectsNonObject(t *testing.T) {
	var n core.Note
	assert.Error(t, json.Unmarshal([]byte(`42`), &n))
	assert.Error(t, json.Unmarshal([]byte(`"x"`), &n))
	assert.Error(t, json.Unmarshal([]byte(`{"title":7}`), &n))
}

func TestNote_CloneDetachesExtra(t *testing.T) {
	n := core.Note{ID: "a", Extra: map[string]json.RawMessage{"user": json.RawMessage(`"u"`)}}
	c := n.Clone()
	c.Extra["user"] = json.RawMessage(`"other"`)
	assert.Equal(t, `"u"`, string(n.Extra["user"]))
}

func TestDraft_Wire(t *testing.T) {
	out, err := json.Marshal(core.Draft{Title: "t", Description: "d", Tag: "g"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"t","description":"d","tag":"g"}`, string(out))
}

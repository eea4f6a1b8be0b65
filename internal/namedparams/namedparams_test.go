package namedparams_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dnl-fm/litebase/internal/namedparams"
)

var translateTestTable = []struct { // nolint:gochecknoglobals
	name          string
	query         string
	expectErr     bool
	expectedQuery string
	expectedNames []string
}{
	/* s0 */ {
		name:          "test s0: no placeholders",
		query:         "SELECT 1",
		expectedQuery: "SELECT 1",
		expectedNames: []string{},
	},
	/* s1 */ {
		name:          "test s1: single placeholder",
		query:         "SELECT * FROM users WHERE id = :id",
		expectedQuery: "SELECT * FROM users WHERE id = ?",
		expectedNames: []string{"id"},
	},
	/* s2 */ {
		name:          "test s2: multiple placeholders keep order",
		query:         "INSERT INTO users (name, email) VALUES (:name, :email)",
		expectedQuery: "INSERT INTO users (name, email) VALUES (?, ?)",
		expectedNames: []string{"name", "email"},
	},
	/* s3 */ {
		name:          "test s3: repeated placeholder repeats",
		query:         "SELECT * FROM t WHERE a = :v OR b = :v",
		expectedQuery: "SELECT * FROM t WHERE a = ? OR b = ?",
		expectedNames: []string{"v", "v"},
	},
	/* s4 */ {
		name:          "test s4: name inside string literal untouched",
		query:         "SELECT ':not_a_param', :real FROM t",
		expectedQuery: "SELECT ':not_a_param', ? FROM t",
		expectedNames: []string{"real"},
	},
	/* s5 */ {
		name:          "test s5: escaped quote inside literal",
		query:         "SELECT 'it''s :fine', :real",
		expectedQuery: "SELECT 'it''s :fine', ?",
		expectedNames: []string{"real"},
	},
	/* s6 */ {
		name:          "test s6: double-quoted identifier untouched",
		query:         `SELECT ":col" FROM t WHERE x = :x`,
		expectedQuery: `SELECT ":col" FROM t WHERE x = ?`,
		expectedNames: []string{"x"},
	},
	/* s7 */ {
		name:          "test s7: cast operator untouched",
		query:         "SELECT total::text FROM t WHERE id = :id",
		expectedQuery: "SELECT total::text FROM t WHERE id = ?",
		expectedNames: []string{"id"},
	},
	/* s8 */ {
		name:          "test s8: line comment untouched",
		query:         "SELECT 1 -- :nope\nFROM t WHERE id = :id",
		expectedQuery: "SELECT 1 -- :nope\nFROM t WHERE id = ?",
		expectedNames: []string{"id"},
	},
	/* s9 */ {
		name:          "test s9: block comment untouched",
		query:         "SELECT /* :nope */ :id",
		expectedQuery: "SELECT /* :nope */ ?",
		expectedNames: []string{"id"},
	},
	/* s10 */ {
		name:          "test s10: lone colon passes through",
		query:         "SELECT 'a' : 'b'",
		expectedQuery: "SELECT 'a' : 'b'",
		expectedNames: []string{},
	},
	/* e0 */ {
		name:      "test e0: unterminated literal",
		query:     "SELECT 'oops",
		expectErr: true,
	},
	/* e1 */ {
		name:      "test e1: unterminated block comment",
		query:     "SELECT /* oops",
		expectErr: true,
	},
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	for _, test := range translateTestTable {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			query, names, err := namedparams.Translate(test.query)
			if test.expectErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, test.expectedQuery, query)
			if len(test.expectedNames) == 0 {
				assert.Empty(t, names)
			} else {
				assert.Equal(t, test.expectedNames, names)
			}
		})
	}
}

func TestBind(t *testing.T) {
	t.Parallel()

	query, args, err := namedparams.Bind(
		"UPDATE users SET name = :name WHERE id = :id AND name <> :name",
		map[string]any{"name": "ana", "id": 7},
	)
	assert.NoError(t, err)
	assert.Equal(t, "UPDATE users SET name = ? WHERE id = ? AND name <> ?", query)
	assert.Equal(t, []any{"ana", 7, "ana"}, args)
}

func TestBind_MissingArg(t *testing.T) {
	t.Parallel()

	_, _, err := namedparams.Bind("SELECT :a, :b", map[string]any{"a": 1})
	assert.ErrorIs(t, err, namedparams.ErrMissingArg)
	assert.Contains(t, err.Error(), "b")
}

package sqldb

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chinookFixture = `
CREATE TABLE Artist (ArtistId INTEGER PRIMARY KEY, Name NVARCHAR(120));
CREATE TABLE Album (AlbumId INTEGER PRIMARY KEY, Title NVARCHAR(160) NOT NULL, ArtistId INTEGER NOT NULL REFERENCES Artist(ArtistId));
INSERT INTO Artist VALUES (1, 'AC/DC'), (2, 'Accept'), (3, 'Aerosmith'), (4, 'Alanis Morissette');
INSERT INTO Album VALUES (1, 'For Those About To Rock We Salute You', 1), (2, 'Balls to the Wall', 2), (3, 'Restless and Wild', 2), (4, 'Let There Be Rock', 1);
`

func newFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Chinook.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(chinookFixture)
	require.NoError(t, err)
	return path
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.db"), true)
	assert.ErrorIs(t, err, ErrDatabaseNotFound)
}

func TestDatabase_Tables(t *testing.T) {
	db, err := Open(context.Background(), newFixture(t), true)
	require.NoError(t, err)
	defer db.Close()

	tables, err := db.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Album", "Artist"}, tables)
}

func TestDatabase_TableInfo(t *testing.T) {
	db, err := Open(context.Background(), newFixture(t), true)
	require.NoError(t, err)
	defer db.Close()

	info, err := db.TableInfo(context.Background())
	require.NoError(t, err)

	assert.Contains(t, info, "CREATE TABLE Artist")
	assert.Contains(t, info, "CREATE TABLE Album")
	assert.Contains(t, info, "3 rows from Artist table:")
	assert.Contains(t, info, "ArtistId\tName")
	assert.Contains(t, info, "1\tAC/DC")
	assert.NotContains(t, info, "Alanis Morissette")
}

func TestDatabase_Execute(t *testing.T) {
	db, err := Open(context.Background(), newFixture(t), true)
	require.NoError(t, err)
	defer db.Close()

	res, err := db.Execute(context.Background(),
		`SELECT ar.Name, COUNT(*) AS Albums FROM Album al JOIN Artist ar ON ar.ArtistId = al.ArtistId GROUP BY ar.Name ORDER BY ar.Name;`)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Albums"}, res.Columns)
	assert.Equal(t, [][]string{{"AC/DC", "2"}, {"Accept", "2"}}, res.Rows)

	md := res.Markdown()
	lines := strings.Split(strings.TrimSpace(md), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Name")
	assert.Contains(t, lines[1], "---")
	assert.Contains(t, lines[2], "AC/DC")
	assert.True(t, strings.HasPrefix(lines[0], "|"))
}

func TestDatabase_ExecuteEmptyAndInvalid(t *testing.T) {
	db, err := Open(context.Background(), newFixture(t), true)
	require.NoError(t, err)
	defer db.Close()

	res, err := db.Execute(context.Background(), `SELECT * FROM Artist WHERE Name = 'Nobody';`)
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Equal(t, NoRows, res.Markdown())

	_, err = db.Execute(context.Background(), `SELECT * FROM Nope;`)
	assert.Error(t, err)
}

func TestDatabase_ReadOnlyRejectsWrites(t *testing.T) {
	path := newFixture(t)

	ro, err := Open(context.Background(), path, true)
	require.NoError(t, err)
	defer ro.Close()
	_, err = ro.Execute(context.Background(), `DELETE FROM Artist;`)
	assert.Error(t, err)

	rw, err := Open(context.Background(), path, false)
	require.NoError(t, err)
	defer rw.Close()
	_, err = rw.Execute(context.Background(), `UPDATE Artist SET Name = 'AC-DC' WHERE ArtistId = 1;`)
	assert.NoError(t, err)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", formatValue(nil))
	assert.Equal(t, "abc", formatValue([]byte("abc")))
	assert.Equal(t, "0.99", formatValue(0.99))
	assert.Equal(t, "42", formatValue(int64(42)))
}

package aggregate

import (
	"os"
	"path/filepath"
	"testing"

	"confcollect/internal/collectors"
	"confcollect/internal/db"
	"confcollect/internal/logger"
	"confcollect/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Init(false, "")
	os.Exit(m.Run())
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := db.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))
	t.Cleanup(func() { db.Close(database) })
	return database
}

func TestProcessDeduplicates(t *testing.T) {
	database := testDB(t)
	agg := New(database)

	body := "ss://YWVzLTI1Ni1nY206cGFzcw==@1.2.3.4:8388#one\n" +
		"ss://YWVzLTI1Ni1nY206cGFzcw==@1.2.3.4:8388#two\n" +
		"trojan://secret@host.example:443#three\n"

	r := agg.Process(collectors.Feed{Source: "https://feed.example/sub", Body: body})
	require.Equal(t, 3, r.TotalLines)
	require.Equal(t, 3, r.Parsed)
	require.Equal(t, 2, r.Unique)
	require.Equal(t, 1, r.Duplicates)

	var count int64
	database.Model(&model.Record{}).Count(&count)
	require.EqualValues(t, 2, count)

	var rec model.Record
	require.NoError(t, database.Where("kind = ?", "shadowsocks").First(&rec).Error)
	require.Equal(t, "shadowsocks://1.2.3.4:8388", rec.Key)
	require.Equal(t, "https://feed.example/sub", rec.Source)
}

func TestProcessDedupSpansFeeds(t *testing.T) {
	database := testDB(t)
	agg := New(database)

	agg.Process(collectors.Feed{Source: "a", Body: "trojan://pw@h:443#x"})
	r := agg.Process(collectors.Feed{Source: "b", Body: "trojan://pw@h:443#y"})

	require.Equal(t, 0, r.Unique)
	require.Equal(t, 1, r.Duplicates)

	var count int64
	database.Model(&model.Record{}).Count(&count)
	require.EqualValues(t, 1, count)
}

func TestProcessBadLines(t *testing.T) {
	database := testDB(t)
	agg := New(database)

	body := "vmess://!!!not-base64!!!\nsocks://host:1080#ok\n"
	r := agg.Process(collectors.Feed{Source: "a", Body: body})

	require.Equal(t, 2, r.TotalLines)
	require.Equal(t, 1, r.Parsed)
	require.Equal(t, 1, r.Failed())
	require.Equal(t, "ok", r.Status)
}

func TestProcessRecordsSubscription(t *testing.T) {
	database := testDB(t)
	agg := New(database)

	agg.Process(collectors.Feed{Source: "https://feed.example/sub", Body: "trojan://pw@h:443#x"})

	var sub model.Subscription
	require.NoError(t, database.Where("url = ?", "https://feed.example/sub").First(&sub).Error)
	require.Equal(t, "ok", sub.Status)
	require.Equal(t, 1, sub.Parsed)
}

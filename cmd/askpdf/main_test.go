package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"askpdf/internal/config"
	"askpdf/internal/domain"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQueryCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "askpdf.yaml", "chunker:\n  chunk_size: 5\n  overlap: 2\nvectorizer:\n  kind: term-frequency\n  stop_words: none\n")
	doc := writeFile(t, dir, "pets.txt", "the cat sat on the mat the dog ran")

	out, err := runCmd(t, "query", "--config", cfg, "-k", "1", doc, "on the mat the dog")
	require.NoError(t, err)
	assert.Contains(t, out, "#1  chunk 1  score 1.0000")
	assert.Contains(t, out, "on the mat the dog")
	assert.NotContains(t, out, "#2")
}

func TestQueryCommand_DefaultTopKFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "askpdf.yaml", "chunker:\n  chunk_size: 5\n  overlap: 2\nvectorizer:\n  kind: term-frequency\nretrieval:\n  top_k: 2\n")
	doc := writeFile(t, dir, "pets.txt", "the cat sat on the mat the dog ran")

	out, err := runCmd(t, "query", "--config", cfg, doc, "dog")
	require.NoError(t, err)
	assert.Contains(t, out, "#2")
	assert.NotContains(t, out, "#3")
}

func TestQueryCommand_EmptyDocument(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "blank.txt", "  \n ")
	_, err := runCmd(t, "query", "--config", filepath.Join(dir, "none.yaml"), doc, "anything")
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestQueryCommand_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "askpdf.yaml", "chunker:\n  chunk_size: 5\n  overlap: 5\n")
	doc := writeFile(t, dir, "doc.txt", "some words")
	_, err := runCmd(t, "query", "--config", cfg, doc, "words")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestQueryCommand_KindOverride(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "askpdf.yaml", "chunker:\n  chunk_size: 6\n  overlap: 1\n")
	doc := writeFile(t, dir, "doc.txt", "battery storage costs fell while grid prices stayed flat")

	// openai is the default dense provider and refuses to start without a key
	t.Setenv("OPENAI_API_KEY", "")
	_, err := runCmd(t, "query", "--config", cfg, "--kind", "dense-embedding", doc, "battery storage")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	_, err = runCmd(t, "query", "--config", cfg, "--kind", "bm25", doc, "battery")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestQueryCommand_Args(t *testing.T) {
	_, err := runCmd(t, "query", "only-file.txt")
	assert.Error(t, err)
}

func TestNewSession_AllKinds(t *testing.T) {
	for _, kind := range []string{config.KindTermFrequency, config.KindTFIDF} {
		cfg := &config.AppConfig{Vectorizer: config.VectorizerConfig{Kind: kind}}
		config.ApplyDefaults(cfg)
		sess, err := newSession(context.Background(), cfg)
		require.NoError(t, err, kind)
		_, err = sess.LoadText("t", "solar panels convert sunlight into electricity")
		require.NoError(t, err, kind)
		m, err := sess.Best("sunlight")
		require.NoError(t, err)
		assert.Greater(t, m.Score, 0.0, kind)
	}

	cfg := &config.AppConfig{Vectorizer: config.VectorizerConfig{
		Kind:  config.KindDense,
		Dense: &config.DenseConfig{Provider: config.ProviderHashing, Dimension: 64},
	}}
	config.ApplyDefaults(cfg)
	sess, err := newSession(context.Background(), cfg)
	require.NoError(t, err)
	_, err = sess.LoadText("t", "solar panels convert sunlight into electricity")
	require.NoError(t, err)
	assert.Equal(t, 3, sess.DefaultTopK())
}

func TestStopWordSet(t *testing.T) {
	assert.Nil(t, stopWordSet(config.VectorizerConfig{StopWords: config.StopWordsNone}))
	assert.True(t, stopWordSet(config.VectorizerConfig{StopWords: config.StopWordsEnglish}).Contains("the"))
	custom := stopWordSet(config.VectorizerConfig{StopWords: config.StopWordsCustom, CustomStopWords: []string{"Invoice"}})
	assert.True(t, custom.Contains("invoice"))
	assert.False(t, custom.Contains("the"))
}

func TestPrintMatches(t *testing.T) {
	var buf bytes.Buffer
	printMatches(&buf, []domain.Match{
		{Chunk: domain.Chunk{Index: 2, Text: "alpha"}, Score: 0.5},
		{Chunk: domain.Chunk{Index: 0, Text: "beta"}, Score: 0.25},
	})
	assert.Equal(t, "#1  chunk 2  score 0.5000\nalpha\n\n#2  chunk 0  score 0.2500\nbeta\n", buf.String())
}

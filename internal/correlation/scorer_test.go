package correlation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nathan-Luevano/Sift/internal/analysis"
	"github.com/Nathan-Luevano/Sift/internal/models"
)

func TestTraditionalScore(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		want    float64
	}{
		{
			name:    "no overlap scores zero",
			path:    `C:\data\report.pdf`,
			content: "annual budget meeting notes",
			want:    0,
		},
		{
			name:    "filename mention alone",
			path:    `C:\data\memo.pdf`,
			content: "the attachment memo.pdf was reviewed yesterday",
			want:    0.8,
		},
		{
			name:    "shared path keywords only",
			path:    `C:\projects\ransomware_analysis\sample.bin`,
			content: "detailed ransomware analysis published yesterday",
			want:    0.2,
		},
		{
			name:    "security term in suspicious path",
			path:    `C:\Users\victim\AppData\Roaming\temp\x.dat`,
			content: "a breach was reported overnight",
			want:    0.4,
		},
		{
			name:    "executable path with software term",
			path:    `C:\bin\helper.exe`,
			content: "a handy admin tool for remote hosts",
			want:    0.3,
		},
		{
			name:    "stacked signals clamp at one",
			path:    `C:\Users\victim\Downloads\evil.exe`,
			content: "new malware campaign dropping evil.exe via phishing downloads",
			want:    1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &models.ForensicEvent{FilePath: tt.path}
			item := &models.OsintItem{Content: tt.content}
			assert.InDelta(t, tt.want, TraditionalScore(event, item), 1e-9)
		})
	}
}

func TestTraditionalScoreMonotonicUnderMoreKeywords(t *testing.T) {
	event := &models.ForensicEvent{FilePath: `C:\staging\alpha_bravo_charlie_delta.bin`}
	weak := &models.OsintItem{Content: "observed alpha activity"}
	strong := &models.OsintItem{Content: "observed alpha bravo charlie activity"}

	assert.GreaterOrEqual(t,
		TraditionalScore(event, strong),
		TraditionalScore(event, weak))
}

type stubAnalyzer struct {
	result *models.AnalysisResult
	err    error
	calls  int
}

func (s *stubAnalyzer) AnalyzeCorrelation(_ context.Context, _ *models.ForensicEvent, _ string) (*models.AnalysisResult, error) {
	s.calls++
	return s.result, s.err
}

func (s *stubAnalyzer) ScoreRelevance(_ context.Context, _ string, _ *models.ForensicContext) (*models.AnalysisResult, error) {
	s.calls++
	return s.result, s.err
}

func TestScorerBlendsExternalAnalysis(t *testing.T) {
	stub := &stubAnalyzer{result: &models.AnalysisResult{CorrelationScore: 10}}
	cached := analysis.NewCachedAnalyzer(stub, analysis.NewMemoryCache())
	scorer := NewScorer(cached, nil)

	event := &models.ForensicEvent{FilePath: `C:\projects\ransomware_analysis\sample.bin`}
	item := &models.OsintItem{Content: "detailed ransomware analysis published yesterday"}

	// 0.7*(10/10) + 0.3*0.2
	got := scorer.Score(context.Background(), event, item)
	assert.InDelta(t, 0.76, got, 1e-9)
}

func TestScorerFallsBackWhenAnalyzerFails(t *testing.T) {
	stub := &stubAnalyzer{err: assert.AnError}
	cached := analysis.NewCachedAnalyzer(stub, analysis.NewMemoryCache())
	scorer := NewScorer(cached, nil)

	event := &models.ForensicEvent{FilePath: `C:\projects\ransomware_analysis\sample.bin`}
	item := &models.OsintItem{Content: "detailed ransomware analysis published yesterday"}

	got := scorer.Score(context.Background(), event, item)
	require.Equal(t, 1, stub.calls)
	assert.InDelta(t, 0.2, got, 1e-9)
}

func TestScorerWithoutAnalyzer(t *testing.T) {
	scorer := NewScorer(nil, nil)
	event := &models.ForensicEvent{FilePath: `C:\data\memo.pdf`}
	item := &models.OsintItem{Content: "the attachment memo.pdf was reviewed yesterday"}

	assert.InDelta(t, 0.8, scorer.Score(context.Background(), event, item), 1e-9)
}

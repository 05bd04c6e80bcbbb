package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"cothink/internal/model"
)

// ExportMetadata describes one complete-dataset dump.
type ExportMetadata struct {
	ExportID          string    `json:"exportId"`
	ExportTimestamp   time.Time `json:"exportTimestamp"`
	TotalInteractions int       `json:"totalInteractions"`
	TotalSurveys      int       `json:"totalSurveys"`
	UniqueAgents      int       `json:"uniqueAgents"`
}

// CompleteDataset is the full lossless dump: both logs plus the aggregate
// report. Reparsing it reproduces every record exactly.
type CompleteDataset struct {
	Metadata           ExportMetadata            `json:"metadata"`
	InteractionRecords []model.InteractionRecord `json:"interactionRecords"`
	SurveyResponses    []model.SurveyRecord      `json:"surveyResponses"`
	AnalysisResults    *model.AggregateReport    `json:"analysisResults"`
}

// ExportService renders the aggregate report and the raw logs into files
// under a destination directory. Write failures are returned to the caller:
// silently losing research output is a correctness defect.
type ExportService struct {
	dir    string
	logger *slog.Logger
}

// NewExportService creates a new export service
func NewExportService(dir string) *ExportService {
	return &ExportService{
		dir:    dir,
		logger: slog.Default().With(slog.String("component", "export")),
	}
}

// Export writes every artifact and returns a map of artifact name to path.
func (s *ExportService) Export(report *model.AggregateReport, interactions []model.InteractionRecord, surveys []model.SurveyRecord, prefix string) (map[string]string, error) {
	if prefix == "" {
		prefix = "co_thinking_data"
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	ts := time.Now().Format("20060102_150405")
	artifacts := map[string]string{}

	completePath := filepath.Join(s.dir, fmt.Sprintf("%s_complete_%s.json", prefix, ts))
	if err := s.writeCompleteDataset(completePath, report, interactions, surveys); err != nil {
		return nil, err
	}
	artifacts["complete_json"] = completePath

	if len(interactions) > 0 {
		path := filepath.Join(s.dir, fmt.Sprintf("%s_interactions_%s.csv", prefix, ts))
		if err := writeCSV(path, interactionHeader(), interactionRows(interactions)); err != nil {
			return nil, err
		}
		artifacts["interactions_csv"] = path
	}

	if len(surveys) > 0 {
		path := filepath.Join(s.dir, fmt.Sprintf("%s_surveys_%s.csv", prefix, ts))
		if err := writeCSV(path, surveyHeader(), surveyRows(surveys)); err != nil {
			return nil, err
		}
		artifacts["surveys_csv"] = path
	}

	workbookPath := filepath.Join(s.dir, fmt.Sprintf("%s_analysis_%s.workbook.csv", prefix, ts))
	if err := s.writeWorkbook(workbookPath, report, interactions, surveys); err != nil {
		return nil, err
	}
	artifacts["workbook"] = workbookPath

	reportPath := filepath.Join(s.dir, fmt.Sprintf("%s_report_%s.md", prefix, ts))
	if err := s.writeNarrativeReport(reportPath, report); err != nil {
		return nil, err
	}
	artifacts["research_report"] = reportPath

	s.logger.Info("export complete", "artifacts", len(artifacts), "dir", s.dir)
	return artifacts, nil
}

func (s *ExportService) writeCompleteDataset(path string, report *model.AggregateReport, interactions []model.InteractionRecord, surveys []model.SurveyRecord) error {
	agents := map[string]struct{}{}
	for _, r := range interactions {
		agents[r.AgentID] = struct{}{}
	}

	dataset := CompleteDataset{
		Metadata: ExportMetadata{
			ExportID:          uuid.New().String(),
			ExportTimestamp:   time.Now().UTC(),
			TotalInteractions: len(interactions),
			TotalSurveys:      len(surveys),
			UniqueAgents:      len(agents),
		},
		InteractionRecords: interactions,
		SurveyResponses:    surveys,
		AnalysisResults:    report,
	}

	data, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal complete dataset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write complete dataset: %w", err)
	}
	return nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// writeWorkbook writes the multi-section tabular workbook. Every section is
// always present; an empty source log leaves a placeholder row.
func (s *ExportService) writeWorkbook(path string, report *model.AggregateReport, interactions []model.InteractionRecord, surveys []model.SurveyRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	section := func(name string, header []string, rows [][]string, placeholder string) error {
		if err := w.Write([]string{"== " + name + " =="}); err != nil {
			return err
		}
		if len(rows) == 0 {
			if err := w.Write([]string{"Note"}); err != nil {
				return err
			}
			return w.Write([]string{placeholder})
		}
		if err := w.Write(header); err != nil {
			return err
		}
		return w.WriteAll(rows)
	}

	if err := section("Interactions", interactionHeader(), interactionRows(interactions), "No interaction data recorded"); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := section("Surveys", surveyHeader(), surveyRows(surveys), "No survey data recorded"); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := section("Analysis_Summary", []string{"metric", "value"}, summaryRows(report), "No analysis available - insufficient data"); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return f.Close()
}

func interactionHeader() []string {
	return []string{
		"timestamp", "agent_id", "interaction_type", "scenario_name", "scenario_type",
		"response_length_words", "response_length_chars",
		"cultural_background", "age", "gender", "native_language", "english_proficiency",
		"socioeconomic_status", "emotional_state",
		"trust_level", "help_seeking_tendency", "authority_deference", "privacy_concern",
		"coherence_score", "cultural_consistency_score", "foundation_alignment_score",
		"question_types", "response_categories", "constructs_evident",
		"generation_error", "raw_response",
	}
}

func interactionRows(records []model.InteractionRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Timestamp.Format(time.RFC3339Nano),
			r.AgentID,
			r.InteractionType,
			r.ScenarioName,
			r.ScenarioType,
			strconv.Itoa(r.ResponseLengthWords),
			strconv.Itoa(r.ResponseLengthChars),
			r.Profile.CulturalBackground,
			strconv.Itoa(r.Profile.Age),
			r.Profile.Gender,
			r.Profile.NativeLanguage,
			r.Profile.EnglishProficiency,
			r.Profile.SocioeconomicStatus,
			r.Profile.EmotionalState,
			formatFloat(r.Behavioral.TrustLevel),
			formatFloat(r.Behavioral.HelpSeekingTendency),
			formatFloat(r.Behavioral.AuthorityDeference),
			formatFloat(r.Behavioral.PrivacyConcern),
			formatFloat(r.Quality.Coherence),
			formatFloat(r.Quality.CulturalConsistency),
			formatFloat(r.Quality.FoundationAlignment),
			strings.Join(r.QuestionTypes, ";"),
			strings.Join(r.ResponseCategories, ";"),
			strings.Join(r.ConstructsEvident, ";"),
			r.GenerationError,
			r.RawResponse,
		})
	}
	return rows
}

func surveyHeader() []string {
	return []string{
		"timestamp", "agent_id", "survey_type", "profile_context",
		"ratings", "reasonings", "key_themes",
		"completeness", "coherence", "specificity", "cultural_relevance",
		"raw_responses",
	}
}

func surveyRows(records []model.SurveyRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Timestamp.Format(time.RFC3339Nano),
			r.AgentID,
			r.SurveyType,
			r.ProfileContext,
			formatRatings(r.Ratings),
			strings.Join(r.Reasonings, ";"),
			strings.Join(r.KeyThemes, ";"),
			formatFloat(r.Quality.Completeness),
			formatFloat(r.Quality.Coherence),
			formatFloat(r.Quality.Specificity),
			formatFloat(r.Quality.CulturalRelevance),
			r.RawResponses,
		})
	}
	return rows
}

// summaryRows flattens the report summary into metric/value pairs.
func summaryRows(report *model.AggregateReport) [][]string {
	if report == nil || report.IsError() {
		return nil
	}
	s := report.Summary
	return [][]string{
		{"total_interactions", strconv.Itoa(s.TotalInteractions)},
		{"unique_agents", strconv.Itoa(s.UniqueAgents)},
		{"avg_response_length_words", formatFloat(s.AvgResponseLength)},
		{"response_length_std", formatFloat(s.ResponseLengthStd)},
		{"cultural_diversity", strconv.Itoa(s.CulturalDiversity)},
		{"age_range", fmt.Sprintf("%d-%d", s.AgeRange[0], s.AgeRange[1])},
		{"avg_coherence_score", formatFloat(s.AvgCoherence)},
		{"avg_foundation_alignment", formatFloat(s.AvgFoundationAlign)},
		{"scenario_types_covered", strings.Join(s.ScenarioTypesCovered, ";")},
		{"languages_represented", strings.Join(s.LanguagesRepresented, ";")},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatRatings(ratings map[int]int) string {
	questions := make([]int, 0, len(ratings))
	for q := range ratings {
		questions = append(questions, q)
	}
	sort.Ints(questions)

	parts := make([]string, 0, len(questions))
	for _, q := range questions {
		parts = append(parts, fmt.Sprintf("q%d=%d", q, ratings[q]))
	}
	return strings.Join(parts, ";")
}

// writeNarrativeReport renders the Markdown research report. The degraded
// template is used only when the report carries the empty-dataset error.
func (s *ExportService) writeNarrativeReport(path string, report *model.AggregateReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	if report.IsError() {
		if err := errorReportTmpl.Execute(f, map[string]string{
			"Generated": time.Now().Format("2006-01-02 15:04:05"),
			"Error":     report.Error,
		}); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		return f.Close()
	}

	if err := reportTmpl.Execute(f, newNarrativeData(report)); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return f.Close()
}

type narrativeCulture struct {
	Name  string
	Stats model.CultureStats
}

type narrativeConstruct struct {
	Name  string
	Stats model.ConstructStats
}

type narrativeData struct {
	Generated       string
	Summary         model.ReportSummary
	Cultures        []narrativeCulture
	Constructs      []narrativeConstruct
	Alignment       model.FoundationAlignmentStats
	Recommendations []string
}

func newNarrativeData(report *model.AggregateReport) narrativeData {
	cultures := make([]narrativeCulture, 0, len(report.CulturalAnalysis))
	for name, stats := range report.CulturalAnalysis {
		cultures = append(cultures, narrativeCulture{Name: name, Stats: stats})
	}
	sort.Slice(cultures, func(i, j int) bool { return cultures[i].Name < cultures[j].Name })

	constructs := make([]narrativeConstruct, 0, len(report.Constructs))
	for name, stats := range report.Constructs {
		constructs = append(constructs, narrativeConstruct{Name: name, Stats: stats})
	}
	sort.Slice(constructs, func(i, j int) bool { return constructs[i].Name < constructs[j].Name })

	return narrativeData{
		Generated:       time.Now().Format("2006-01-02 15:04:05"),
		Summary:         report.Summary,
		Cultures:        cultures,
		Constructs:      constructs,
		Alignment:       report.FoundationAlignment,
		Recommendations: report.Recommendations,
	}
}

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
}).Parse(`# Co-Thinking Research Simulation Analysis Report

Generated: {{.Generated}}

## Executive Summary

This report analyzes {{.Summary.TotalInteractions}} interactions from {{.Summary.UniqueAgents}} diverse student agents across {{.Summary.CulturalDiversity}} cultural backgrounds.

### Key Findings

- **Response Quality**: Average coherence score of {{.Summary.AvgCoherence}}
- **Foundation Alignment**: Average alignment score of {{.Summary.AvgFoundationAlign}}
- **Cultural Diversity**: {{.Summary.CulturalDiversity}} cultures represented
- **Age Range**: {{index .Summary.AgeRange 0}}-{{index .Summary.AgeRange 1}} years
- **Languages**: {{len .Summary.LanguagesRepresented}} different native languages

## Cultural Analysis
{{range .Cultures}}
### {{.Name}}
- **Participants**: {{.Stats.Participants}}
- **Average Response Length**: {{.Stats.AvgResponseLength}} words
- **Trust Level**: {{.Stats.AvgTrustLevel}}
- **Authority Deference**: {{.Stats.AvgAuthorityDeference}}
- **Common Constructs**: {{if .Stats.CommonConstructs}}{{join .Stats.CommonConstructs ", "}}{{else}}None identified{{end}}
- **Response Quality**:
  - Coherence: {{.Stats.ResponseQuality.Coherence}}
  - Cultural Consistency: {{.Stats.ResponseQuality.CulturalConsistency}}
  - Foundation Alignment: {{.Stats.ResponseQuality.FoundationAlignment}}
{{end}}
## Psychological Constructs Analysis
{{range .Constructs}}
### {{.Name}}
- **Frequency**: {{.Stats.Frequency}} interactions ({{.Stats.Percentage}}%)
- **Quality Metrics**:
  - Coherence: {{.Stats.AvgCoherence}}
  - Foundation Alignment: {{.Stats.AvgFoundationAlign}}
{{end}}
## Foundation Document Alignment

- **Overall Alignment**: {{.Alignment.OverallAlignment}}
- **High Alignment Cases**: {{.Alignment.HighAlignmentCases}} interactions (>0.8)
- **Low Alignment Cases**: {{.Alignment.LowAlignmentCases}} interactions (<0.5)

## Research Recommendations

{{range $i, $rec := .Recommendations}}{{inc $i}}. {{$rec}}
{{end}}
---

*This report was generated automatically from simulation data. For questions about methodology or findings, refer to the research framework documentation.*
`))

var errorReportTmpl = template.Must(template.New("errorReport").Parse(`# Co-Thinking Research Simulation Analysis Report

Generated: {{.Generated}}

## Analysis Status

**Error**: {{.Error}}

This report could not be generated because no interaction data was available for analysis.

### Possible Causes:
1. No scenarios were successfully executed
2. API connection issues prevented agent responses
3. Data collection system failed to record interactions

### Recommended Actions:
1. Check API key configuration and connectivity
2. Review scenario execution logs for errors
3. Verify agent creation and initialization
4. Ensure data collection system is properly configured

---

*This report was generated automatically. Please resolve the underlying issues and re-run the simulation.*
`))

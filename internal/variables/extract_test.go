package variables

import (
	"database/sql"
	"testing"
	"time"

	"relationship_engine/internal/domain/anchor"
	"relationship_engine/internal/domain/student"
)

func testStudent() *student.Student {
	return &student.Student{
		ID:        "stu-1",
		Name:      "Maria Clara Souza",
		OrgID:     "org1",
		Status:    student.StatusActive,
		CreatedAt: time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC),
		BirthDate: sql.NullTime{Time: time.Date(1996, time.August, 31, 0, 0, 0, 0, time.UTC), Valid: true},
	}
}

func buildContext(t *testing.T, b *ContextBuilder) *Context {
	t.Helper()
	ctx, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return ctx
}

func TestBuilderRequiresStudent(t *testing.T) {
	if _, err := NewContextBuilder().Build(); err == nil {
		t.Fatal("expected error building context without student")
	}
}

func TestExtractPrimeiroNome(t *testing.T) {
	ctx := buildContext(t, NewContextBuilder().WithStudent(testStudent()))
	if got := Extract(ctx, PrimeiroNome); got != "Maria" {
		t.Errorf("PrimeiroNome = %q, want %q", got, "Maria")
	}
	if got := Extract(ctx, NomeAluno); got != "Maria Clara Souza" {
		t.Errorf("NomeAluno = %q, want full name", got)
	}
}

func TestExtractSaudacaoTemporal(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{9, "Bom dia"},
		{14, "Boa tarde"},
		{20, "Boa noite"},
	}
	for _, tc := range cases {
		ctx := buildContext(t, NewContextBuilder().
			WithStudent(testStudent()).
			WithNow(time.Date(2026, time.August, 31, tc.hour, 0, 0, 0, time.UTC)))
		if got := Extract(ctx, SaudacaoTemporal); got != tc.want {
			t.Errorf("SaudacaoTemporal at %02d:00 = %q, want %q", tc.hour, got, tc.want)
		}
	}
}

func TestExtractIdadeAluno(t *testing.T) {
	ctx := buildContext(t, NewContextBuilder().
		WithStudent(testStudent()).
		WithNow(time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)))
	if got := Extract(ctx, IdadeAluno); got != "30" {
		t.Errorf("IdadeAluno = %q, want 30", got)
	}
}

func TestExtractAnchorVariables(t *testing.T) {
	occDate := time.Date(2026, time.August, 28, 15, 0, 0, 0, time.UTC)
	ctx := buildContext(t, NewContextBuilder().
		WithStudent(testStudent()).
		WithAnchor(&anchor.SpecificData{
			AnchorDate: occDate,
			AnchorType: anchor.EventOccurrenceFollowup,
			AdditionalData: map[string]any{
				"occurrence_type":        "lesão",
				"occurrence_description": "Dor no joelho",
				"occurrence_date":        occDate,
			},
		}))

	if got := Extract(ctx, TipoOcorrencia); got != "lesão" {
		t.Errorf("TipoOcorrencia = %q", got)
	}
	if got := Extract(ctx, DescricaoOcorrencia); got != "Dor no joelho" {
		t.Errorf("DescricaoOcorrencia = %q", got)
	}
	if got := Extract(ctx, DataOcorrencia); got != "28/08/2026" {
		t.Errorf("DataOcorrencia = %q, want 28/08/2026", got)
	}
}

func TestExtractUnknownFallsBackToCustomThenEmpty(t *testing.T) {
	ctx := buildContext(t, NewContextBuilder().
		WithStudent(testStudent()).
		WithCustom(map[string]string{"PromoDoMes": "20% off"}))

	if got := Extract(ctx, Name("PromoDoMes")); got != "20% off" {
		t.Errorf("custom fallback = %q", got)
	}
	if got := Extract(ctx, Name("NaoExiste")); got != "" {
		t.Errorf("unknown variable = %q, want empty", got)
	}
}

func TestExtractMissingOptionalDataIsEmpty(t *testing.T) {
	st := testStudent()
	st.LastWorkoutDate = sql.NullTime{}
	ctx := buildContext(t, NewContextBuilder().WithStudent(st))

	if got := Extract(ctx, DiasSemTreinar); got != "" {
		t.Errorf("DiasSemTreinar without workout date = %q, want empty", got)
	}
	if got := Extract(ctx, NomeTreinador); got != "" {
		t.Errorf("NomeTreinador without trainer = %q, want empty", got)
	}
}

func TestRenderMessage(t *testing.T) {
	ctx := buildContext(t, NewContextBuilder().
		WithStudent(testStudent()).
		WithNow(time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)))

	rendered, used := RenderMessage("{SaudacaoTemporal}, {PrimeiroNome}! Parabéns pelos {IdadeAluno} anos!", ctx)
	want := "Bom dia, Maria! Parabéns pelos 30 anos!"
	if rendered != want {
		t.Errorf("rendered = %q, want %q", rendered, want)
	}
	if len(used) != 3 || used[0] != "SaudacaoTemporal" || used[1] != "PrimeiroNome" || used[2] != "IdadeAluno" {
		t.Errorf("variables used = %v", used)
	}
}

func TestVariablesForAnchorFallsBackToCommon(t *testing.T) {
	docs := VariablesForAnchor(anchor.EventBirthday)
	found := false
	for _, d := range docs {
		if d.Name == DataAniversario {
			found = true
		}
	}
	if !found {
		t.Error("birthday docs missing DataAniversario")
	}

	common := VariablesForAnchor(anchor.EventCode("unknown"))
	if len(common) == 0 {
		t.Error("unknown anchor should still document the common variables")
	}
}

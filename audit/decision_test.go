package audit

import (
	"testing"

	"intent-miner/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDecisionTable(t *testing.T) {
	tests := []struct {
		name string
		in   DecisionInput
		want types.Classification
	}{
		{
			name: "regex_two_shared_tokens",
			in:   DecisionInput{Method: types.MethodRegex, Score: 1.0, SharedTokens: 2, LabelSim: 0.3},
			want: types.ClassCorrect,
		},
		{
			name: "regex_strong_label_similarity",
			in:   DecisionInput{Method: types.MethodRegex, Score: 1.0, SharedTokens: 0, LabelSim: 0.62},
			want: types.ClassCorrect,
		},
		{
			name: "regex_one_shared_token",
			in:   DecisionInput{Method: types.MethodRegex, Score: 1.0, SharedTokens: 1, LabelSim: 0.2},
			want: types.ClassAmbiguous,
		},
		{
			name: "regex_mid_label_similarity",
			in:   DecisionInput{Method: types.MethodRegex, Score: 1.0, SharedTokens: 0, LabelSim: 0.4},
			want: types.ClassAmbiguous,
		},
		{
			name: "regex_overmatch",
			in:   DecisionInput{Method: types.MethodRegex, Score: 1.0, SharedTokens: 0, LabelSim: 0.2},
			want: types.ClassIncorrect,
		},
		{
			name: "semantic_strong_ignores_overlap",
			in:   DecisionInput{Method: types.MethodSemantic, Score: 0.90, SharedTokens: 0, LabelSim: 0},
			want: types.ClassCorrect,
		},
		{
			name: "semantic_accept_with_corroboration",
			in:   DecisionInput{Method: types.MethodSemantic, Score: 0.80, SharedTokens: 2, LabelSim: 0.5},
			want: types.ClassCorrect,
		},
		{
			name: "semantic_accept_without_corroboration",
			in:   DecisionInput{Method: types.MethodSemantic, Score: 0.80, SharedTokens: 1, LabelSim: 0.5},
			want: types.ClassAmbiguous,
		},
		{
			name: "fuzzy_strong",
			in:   DecisionInput{Method: types.MethodFuzzy, Score: 0.88},
			want: types.ClassCorrect,
		},
		{
			name: "fuzzy_moderate",
			in:   DecisionInput{Method: types.MethodFuzzy, Score: 0.70},
			want: types.ClassAmbiguous,
		},
		{
			name: "fuzzy_weak",
			in:   DecisionInput{Method: types.MethodFuzzy, Score: 0.55},
			want: types.ClassIncorrect,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.in))
		})
	}
}

func TestProposeFixRegexOvermatch(t *testing.T) {
	in := DecisionInput{Method: types.MethodRegex, Score: 1.0, SharedTokens: 0, LabelSim: 0.2}
	match := types.MatchResult{Method: types.MethodRegex, Score: 1.0, MatchedIntentID: "QRTagLost"}

	require.Equal(t, types.ClassIncorrect, Classify(in))
	fix := ProposeFix("BatteryDrain", in, match)
	require.NotNil(t, fix)
	assert.Equal(t, types.FixTightenRegex, fix.Type)
	assert.Contains(t, fix.Pattern, "(?!")
	assert.Contains(t, fix.Pattern, "tag")
	assert.Contains(t, fix.Pattern, "lost")
}

func TestProposeFixAmbiguousGetsDisambiguation(t *testing.T) {
	in := DecisionInput{Method: types.MethodSemantic, Score: 0.80, SharedTokens: 1, LabelSim: 0.5}
	match := types.MatchResult{Method: types.MethodSemantic, Score: 0.80, MatchedIntentID: "LoginIssue"}

	fix := ProposeFix("LoginTimeout", in, match)
	require.NotNil(t, fix)
	assert.Equal(t, types.FixAddDisambiguation, fix.Type)
	assert.Equal(t, []string{"LoginTimeout", "LoginIssue"}, fix.Options)
	assert.NotEmpty(t, fix.Question)
}

func TestProposeFixIncorrectSemanticGetsAlias(t *testing.T) {
	in := DecisionInput{Method: types.MethodFuzzy, Score: 0.55}
	match := types.MatchResult{Method: types.MethodFuzzy, Score: 0.55, MatchedIntentID: "ChargingFault"}

	fix := ProposeFix("PowerProblem", in, match)
	require.NotNil(t, fix)
	assert.Equal(t, types.FixAdjustNormalization, fix.Type)
	assert.Equal(t, "PowerProblem => ChargingFault", fix.Alias)
}

func TestProposeFixCorrectIsNil(t *testing.T) {
	in := DecisionInput{Method: types.MethodSemantic, Score: 0.92}
	match := types.MatchResult{Method: types.MethodSemantic, Score: 0.92, MatchedIntentID: "LoginIssue"}
	assert.Nil(t, ProposeFix("LoginIssue", in, match))
}

// Package types holds the domain records shared across the discovery and
// audit pipelines. All records are plain data; none of them carry behavior
// beyond small convenience accessors.
package types

import "time"

// NoneIntentID is the sentinel returned when no canonical intent matched.
const NoneIntentID = "NONE"

// TicketRecord is an immutable input row from the ticket store. The caller
// has already excluded auto-closed tickets and tickets with an approved
// canonical match.
type TicketRecord struct {
	ID              string  `json:"id"`
	Subject         string  `json:"subject"`
	Question        string  `json:"question"`
	Answer          string  `json:"answer"`
	PriorIntent     string  `json:"prior_intent,omitempty"`
	PriorConfidence float64 `json:"prior_confidence"`
	AutoCloseable   bool    `json:"auto_closeable"`
	Reopened        bool    `json:"reopened"`
}

// CanonicalIntent is a read-only row from the canonical-intent registry.
type CanonicalIntent struct {
	IntentID    string    `json:"intent_id"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	Description string    `json:"description,omitempty"`
	Keywords    []string  `json:"keywords,omitempty"`
	Embedding   []float32 `json:"-"`
}

// DescriptiveText is the text embedded to represent the intent.
func (c CanonicalIntent) DescriptiveText() string {
	text := c.IntentID + " " + c.Category
	if c.Subcategory != "" {
		text += " " + c.Subcategory
	}
	if c.Description != "" {
		text += " " + c.Description
	}
	return text
}

// Cluster is a similarity-connected group of tickets that met the minimum
// size threshold. Clusters are never merged or split after creation.
type Cluster struct {
	ID       int       `json:"id"`
	Members  []int     `json:"members"` // indices into the run's ticket slice
	Centroid []float32 `json:"-"`
}

// Size returns the member count.
func (c Cluster) Size() int { return len(c.Members) }

// MatchMethod identifies which audit tier produced a match.
type MatchMethod string

const (
	MethodRegex    MatchMethod = "regex"
	MethodSemantic MatchMethod = "semantic"
	MethodFuzzy    MatchMethod = "fuzzy"
)

// MatchResult is the outcome of comparing a query against the canonical set.
// Score semantics vary by method: regex matches score exactly 1.0, semantic
// scores are cosine similarities, fuzzy scores are blended label similarities.
type MatchResult struct {
	Method          MatchMethod `json:"method"`
	Score           float64     `json:"score"`
	MatchedIntentID string      `json:"matched_intent_id"`
}

// Verdict is the tiered decision for a discovery cluster.
type Verdict string

const (
	VerdictProposeNew    Verdict = "propose_new_intent"
	VerdictMapToExisting Verdict = "map_to_existing"
	VerdictAmbiguous     Verdict = "ambiguous"
)

// QualityFlag is an operational signal attached to a cluster verdict.
type QualityFlag string

const (
	FlagMiddleZone     QualityFlag = "MIDDLE_ZONE"
	FlagHighRisk       QualityFlag = "HIGH_RISK"
	FlagHighAutomation QualityFlag = "HIGH_AUTOMATION_POTENTIAL"
)

// ClusterReport is a fully-annotated cluster as it appears in the discovery
// output: verdict, nearest canonical match, flags, and summary statistics.
type ClusterReport struct {
	ClusterID      int           `json:"cluster_id"`
	Size           int           `json:"size"`
	Verdict        Verdict       `json:"verdict"`
	NearestIntent  MatchResult   `json:"nearest_intent"`
	QualityFlags   []QualityFlag `json:"quality_flags,omitempty"`
	AvgConfidence  float64       `json:"avg_prior_confidence"`
	ReopenRate     float64       `json:"reopen_rate"`
	AutoCloseRate  float64       `json:"auto_close_rate"`
	TopKeywords    []string      `json:"top_keywords,omitempty"`
	ExampleTexts   []string      `json:"example_texts,omitempty"`
	MemberTicketID []string      `json:"member_ticket_ids"`
}

// RunMetadata summarizes one discovery run.
type RunMetadata struct {
	RunID           string        `json:"run_id"`
	TicketsSeen     int           `json:"tickets_seen"`
	TicketsEligible int           `json:"tickets_eligible"`
	TicketsEmbedded int           `json:"tickets_embedded"`
	EmbeddingErrors int           `json:"embedding_errors"`
	TotalClusters   int           `json:"total_clusters"`
	NoiseCount      int           `json:"noise_count"`
	Elapsed         time.Duration `json:"elapsed"`
	Aborted         bool          `json:"aborted,omitempty"`
}

// DiscoveryResult is the structured output of the discovery path.
type DiscoveryResult struct {
	Metadata          RunMetadata     `json:"metadata"`
	ProposedNew       []ClusterReport `json:"proposed_new_intents"`
	MapToExisting     []ClusterReport `json:"map_to_existing"`
	AmbiguousClusters []ClusterReport `json:"ambiguous_clusters"`
	NoiseSample       []string        `json:"noise_sample,omitempty"`
}

// Assignment is an existing (intent label -> examples) record produced by the
// upstream classifier, re-validated by the audit path.
type Assignment struct {
	IntentID     string   `json:"intent_id"`
	ExampleTexts []string `json:"example_texts"`
	TicketCount  int      `json:"ticket_count"`
}

// Classification is the audit verdict for one assignment.
type Classification string

const (
	ClassCorrect   Classification = "CORRECT"
	ClassIncorrect Classification = "INCORRECT"
	ClassAmbiguous Classification = "AMBIGUOUS"
)

// FixType identifies the remediation proposed for a non-CORRECT finding.
type FixType string

const (
	FixTightenRegex        FixType = "tighten_regex"
	FixAdjustNormalization FixType = "adjust_normalization"
	FixAddDisambiguation   FixType = "add_disambiguation"
)

// ProposedFix is a concrete remediation with a fix-specific payload.
type ProposedFix struct {
	Type FixType `json:"type"`
	// Pattern holds the suggested replacement pattern for tighten_regex.
	Pattern string `json:"pattern,omitempty"`
	// Alias holds the suggested alias mapping for adjust_normalization.
	Alias string `json:"alias,omitempty"`
	// Question and Options hold the clarifying prompt for add_disambiguation.
	Question string   `json:"question,omitempty"`
	Options  []string `json:"options,omitempty"`
}

// AuditFinding is the per-assignment audit outcome.
type AuditFinding struct {
	IntentID       string         `json:"intent_id"`
	Match          MatchResult    `json:"match"`
	SharedTokens   int            `json:"shared_tokens"`
	LabelSim       float64        `json:"label_similarity"`
	Classification Classification `json:"classification"`
	ProposedFix    *ProposedFix   `json:"proposed_fix,omitempty"`
	ExampleText    string         `json:"example_text,omitempty"`
}

// PromotionCandidate is an assigned intent with no canonical match, ranked by
// how many tickets carry it.
type PromotionCandidate struct {
	IntentID    string `json:"intent_id"`
	TicketCount int    `json:"ticket_count"`
	Wait        bool   `json:"wait"`
}

// AuditResult is the structured output of the audit path.
type AuditResult struct {
	RunID      string               `json:"run_id"`
	Findings   []AuditFinding       `json:"findings"`
	Candidates []PromotionCandidate `json:"promotion_candidates"`
	Report     string               `json:"report"`
}

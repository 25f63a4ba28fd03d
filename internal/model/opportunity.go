package model

// Industry verticals an opportunity can be tagged with.
type Vertical string

const (
	VerticalFinTech       Vertical = "FinTech"
	VerticalMedTech       Vertical = "MedTech"
	VerticalGovTech       Vertical = "GovTech"
	VerticalRetail        Vertical = "Retail"
	VerticalManufacturing Vertical = "Manufacturing"
	VerticalAgriTech      Vertical = "AgriTech"
	VerticalEdTech        Vertical = "EdTech"
	VerticalPropTech      Vertical = "PropTech"
	VerticalCleanTech     Vertical = "CleanTech"
	VerticalInsurTech     Vertical = "InsurTech"
	VerticalLogistics     Vertical = "Logistics"
	VerticalGeneral       Vertical = "General"
)

// Trend describes the momentum of an opportunity signal.
type Trend string

const (
	TrendAccelerating Trend = "Accelerating"
	TrendStable       Trend = "Stable"
	TrendCooling      Trend = "Cooling"
)

// OpportunityType classifies what kind of gap the signal points at.
type OpportunityType string

const (
	TypeRegDriven       OpportunityType = "Reg-Driven"
	TypeTechGap         OpportunityType = "Tech Gap"
	TypeCustomerPain    OpportunityType = "Customer Pain"
	TypeCompetitiveVoid OpportunityType = "Competitive Void"
)

// SourceReliability grades the attribution of an opportunity.
type SourceReliability string

const (
	ReliabilityHigh   SourceReliability = "High"
	ReliabilityMedium SourceReliability = "Medium"
	ReliabilityLow    SourceReliability = "Low"
)

// Lifecycle status. Staging opportunities sit in a review queue and are kept
// off the main feed until approved.
const (
	StatusActive  = "Active"
	StatusStaging = "Staging"
)

// Curation review states.
const (
	CurationNew         = "New"
	CurationUnderReview = "Under Review"
	CurationPublished   = "Published"
)

// OpportunityDetails carries the long-form narrative attached to curated
// opportunities.
type OpportunityDetails struct {
	WhyItMatters       string   `json:"whyItMatters"`
	EvidenceHighlights []string `json:"evidenceHighlights"`
	MoneyTrail         string   `json:"moneyTrail"`
	KeyPlayers         []string `json:"keyPlayers"`
	RiskFlags          []string `json:"riskFlags"`
}

// Curation is editorial/AI review metadata.
type Curation struct {
	Status        string `json:"status"`
	Confidence    int    `json:"confidence"`
	HumanReviewer string `json:"humanReviewer,omitempty"`
}

// Opportunity is a scored business-signal record surfaced to tenant users.
//
// Fields:
//  ID                – opportunity identifier ("opp_" prefix, or a feed code).
//  Title             – short headline.
//  Vertical          – industry tag.
//  ImpactScore       – 0-100 strategic impact score.
//  Trend             – signal momentum.
//  EvidenceSnippet   – the key supporting fact or quote.
//  Source            – attribution of the signal.
//  SourceReliability – High/Medium/Low grade of the source.
//  DateDetected      – yyyy-mm-dd date the signal was first seen.
//  Tags              – free-form topic tags.
//  Description       – optional 2-3 sentence summary.
//  TimeHorizon       – "0-6 months" | "6-18 months" | "18+ months".
//  OpportunityType   – gap classification.
//  Geography         – region string ("Global", "USA", ...).
//  Status            – Active (on the feed) or Staging (awaiting review).
//  Details           – optional long-form narrative.
//  Curation          – optional review metadata.
type Opportunity struct {
	ID                string              `json:"id"`
	Title             string              `json:"title"`
	Vertical          Vertical            `json:"vertical"`
	ImpactScore       int                 `json:"impactScore"`
	Trend             Trend               `json:"trend"`
	EvidenceSnippet   string              `json:"evidenceSnippet"`
	Source            string              `json:"source"`
	SourceReliability SourceReliability   `json:"sourceReliability"`
	DateDetected      string              `json:"dateDetected"`
	Tags              []string            `json:"tags"`
	Description       string              `json:"description,omitempty"`
	TimeHorizon       string              `json:"timeHorizon"`
	OpportunityType   OpportunityType     `json:"opportunityType"`
	Geography         string              `json:"geography"`
	Status            string              `json:"status"`
	Details           *OpportunityDetails `json:"details,omitempty"`
	Curation          *Curation           `json:"curation,omitempty"`
}

// OpportunityPatch is a partial update applied by UpdateOpportunity. Nil
// fields are left untouched.
type OpportunityPatch struct {
	Title             *string             `json:"title,omitempty"`
	Vertical          *Vertical           `json:"vertical,omitempty"`
	ImpactScore       *int                `json:"impactScore,omitempty"`
	Trend             *Trend              `json:"trend,omitempty"`
	EvidenceSnippet   *string             `json:"evidenceSnippet,omitempty"`
	Source            *string             `json:"source,omitempty"`
	SourceReliability *SourceReliability  `json:"sourceReliability,omitempty"`
	Tags              []string            `json:"tags,omitempty"`
	Description       *string             `json:"description,omitempty"`
	TimeHorizon       *string             `json:"timeHorizon,omitempty"`
	OpportunityType   *OpportunityType    `json:"opportunityType,omitempty"`
	Geography         *string             `json:"geography,omitempty"`
	Status            *string             `json:"status,omitempty"`
	Details           *OpportunityDetails `json:"details,omitempty"`
	Curation          *Curation           `json:"curation,omitempty"`
}

// Apply merges the patch into o.
func (p OpportunityPatch) Apply(o *Opportunity) {
	if p.Title != nil {
		o.Title = *p.Title
	}
	if p.Vertical != nil {
		o.Vertical = *p.Vertical
	}
	if p.ImpactScore != nil {
		o.ImpactScore = *p.ImpactScore
	}
	if p.Trend != nil {
		o.Trend = *p.Trend
	}
	if p.EvidenceSnippet != nil {
		o.EvidenceSnippet = *p.EvidenceSnippet
	}
	if p.Source != nil {
		o.Source = *p.Source
	}
	if p.SourceReliability != nil {
		o.SourceReliability = *p.SourceReliability
	}
	if p.Tags != nil {
		o.Tags = p.Tags
	}
	if p.Description != nil {
		o.Description = *p.Description
	}
	if p.TimeHorizon != nil {
		o.TimeHorizon = *p.TimeHorizon
	}
	if p.OpportunityType != nil {
		o.OpportunityType = *p.OpportunityType
	}
	if p.Geography != nil {
		o.Geography = *p.Geography
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.Details != nil {
		o.Details = p.Details
	}
	if p.Curation != nil {
		o.Curation = p.Curation
	}
}

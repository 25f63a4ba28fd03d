package store

import "github.com/nsoftlabs/whitespace-server/internal/model"

// SeedDocument builds the fixture document installed on first load. The
// content mirrors the demo dataset the product ships with: a platform
// operator, one populated customer tenant, and a feed of curated
// opportunities across verticals.
func SeedDocument() *model.Document {
	return &model.Document{
		Users: []model.User{
			{
				ID:         "u_1",
				Email:      "platform@saas.local",
				Name:       "Super Admin",
				Role:       model.RolePlatformAdmin,
				TenantSlug: "platform",
				Bookmarks:  []string{},
				SavedItems: []model.SavedOpportunity{},
			},
			{
				ID:         "u_2",
				Email:      "admin@fintech.com",
				Name:       "Sarah Fintech",
				Role:       model.RoleTenantAdmin,
				TenantSlug: "fintech-innovators",
				Bookmarks:  []string{"opp_1"},
				SavedItems: []model.SavedOpportunity{
					{
						OppID:              "opp_1",
						Note:               "Discussed with legal team, this is a priority.",
						PersonalConfidence: 95,
						SavedAt:            "2023-10-25T10:00:00Z",
					},
				},
			},
			{
				ID:         "u_3",
				Email:      "user@fintech.com",
				Name:       "John Analyst",
				Role:       model.RoleTenantUser,
				TenantSlug: "fintech-innovators",
				Bookmarks:  []string{},
				SavedItems: []model.SavedOpportunity{},
			},
		},
		Tenants: []model.Tenant{
			{ID: "t_1", Name: "Platform HQ", Slug: "platform", Plan: model.PlanEnterprise, MRR: 0, UserCount: 1},
			{ID: "t_2", Name: "FinTech Innovators", Slug: "fintech-innovators", Plan: model.PlanGrowth, MRR: 5000, UserCount: 2},
			{ID: "t_3", Name: "MedTech Scouts", Slug: "medtech-scouts", Plan: model.PlanEnterprise, MRR: 12000, UserCount: 5},
		},
		Opportunities: []model.Opportunity{
			{
				ID:                "CLIMATE-001",
				Title:             "Scope 3 Emissions Tracking for Export-Driven Manufacturers",
				Vertical:          model.VerticalGeneral,
				ImpactScore:       91,
				Trend:             model.TrendAccelerating,
				EvidenceSnippet:   "EU Carbon Border Tax (CBAM) enforcement begins 2026; exporters face tariffs without carbon accounting.",
				Source:            "EU Policy Monitor",
				SourceReliability: model.ReliabilityHigh,
				DateDetected:      "2023-10-24",
				Tags:              []string{"Sustainability", "Compliance", "Supply Chain", "CBAM"},
				TimeHorizon:       "6-18 months",
				OpportunityType:   model.TypeRegDriven,
				Geography:         "Global",
				Description:       "EU Carbon Border Tax (CBAM) enforcement begins 2026; exporters face tariffs without carbon accounting.",
				Status:            model.StatusActive,
				Details: &model.OpportunityDetails{
					WhyItMatters: "Failure to comply with CBAM will result in significant tariffs, making exports uncompetitive in the EU market. This creates an urgent need for robust carbon accounting solutions.",
					EvidenceHighlights: []string{
						"CBAM reporting requirements start in 2024, with financial penalties from 2026.",
						"Many Asian exporters lack automated systems for tracking Scope 3 emissions.",
						"First-mover solution providers can capture a significant market share.",
					},
					MoneyTrail: "Market for carbon accounting software projected to grow from $12B to $50B by 2028. Early adopters are raising Series B rounds.",
					KeyPlayers: []string{"SAP", "Salesforce (Net Zero Cloud)", "Persefoni", "Watershed"},
					RiskFlags:  []string{"Complex data collection from suppliers", "Evolving regulatory standards"},
				},
				Curation: &model.Curation{Status: model.CurationPublished, Confidence: 95, HumanReviewer: "AI Model & Jane Doe"},
			},
			{
				ID:                "opp_2",
				Title:             "AI-Driven Triage Reimbursement",
				Vertical:          model.VerticalMedTech,
				ImpactScore:       85,
				Trend:             model.TrendAccelerating,
				EvidenceSnippet:   "CMS proposes new CPT codes for \"AI-augmented diagnostic analysis\" in 2025 schedule.",
				Source:            "CMS Physician Fee Schedule",
				SourceReliability: model.ReliabilityHigh,
				DateDetected:      "2023-11-02",
				Tags:              []string{"Reimbursement", "AI", "Diagnostics"},
				TimeHorizon:       "6-18 months",
				OpportunityType:   model.TypeTechGap,
				Geography:         "USA",
				Description:       "New billing pathways are opening for software-as-a-medical-device (SaMD) that performs triage. Hospitals are currently under-equipped to track utilization of these specific tools for claim submission.",
				Status:            model.StatusActive,
				Details: &model.OpportunityDetails{
					WhyItMatters: "Hospitals are missing out on reimbursements for AI triage tools because they lack proper tracking and documentation systems.",
					EvidenceHighlights: []string{
						"CMS is introducing new CPT codes for AI diagnostic tools in 2025.",
						"Hospitals lose an average of $2M annually in unclaimed reimbursements.",
						"AI triage can reduce emergency room wait times by 30%.",
					},
					MoneyTrail: "Healthcare AI reimbursement market expected to reach $6B by 2027. Multiple startups have received FDA clearance for triage tools.",
					KeyPlayers: []string{"Tempus AI", "PathAI", "Aidoc", "Viz.ai"},
					RiskFlags:  []string{"Regulatory approval delays", "Integration with hospital EHR systems"},
				},
				Curation: &model.Curation{Status: model.CurationUnderReview, Confidence: 82},
			},
			{
				ID:                "opp_3",
				Title:             "Smart City Traffic Grid Modernization",
				Vertical:          model.VerticalGovTech,
				ImpactScore:       78,
				Trend:             model.TrendStable,
				EvidenceSnippet:   "DOT announces $500M grant specifically for V2X (Vehicle-to-Everything) infrastructure.",
				Source:            "DOT Press Release",
				SourceReliability: model.ReliabilityMedium,
				DateDetected:      "2023-10-15",
				Tags:              []string{"Infrastructure", "IoT", "Grants"},
				TimeHorizon:       "18+ months",
				OpportunityType:   model.TypeCompetitiveVoid,
				Geography:         "USA",
				Description:       "Large incumbents have legacy hardware lock-in, but the new grant language favors open-standard interoperability, creating a wedge for software-first players to layer on top of existing traffic controllers.",
				Status:            model.StatusActive,
				Curation:          &model.Curation{Status: model.CurationNew, Confidence: 75},
			},
			{
				ID:                "opp_4",
				Title:             "Cross-Border Stablecoin Settlement",
				Vertical:          model.VerticalFinTech,
				ImpactScore:       88,
				Trend:             model.TrendAccelerating,
				EvidenceSnippet:   "EU MiCA regulation clarifies e-money token issuance, reducing legal ambiguity.",
				Source:            "Official Journal of the EU",
				SourceReliability: model.ReliabilityHigh,
				DateDetected:      "2023-11-10",
				Tags:              []string{"Crypto", "Forex", "Regulation"},
				TimeHorizon:       "6-18 months",
				OpportunityType:   model.TypeRegDriven,
				Geography:         "Europe",
				Description:       "With MiCA providing clarity, B2B cross-border payment flows using euro-backed stablecoins are becoming viable for treasury management, bypassing traditional SWIFT delays.",
				Status:            model.StatusActive,
				Curation:          &model.Curation{Status: model.CurationPublished, Confidence: 90, HumanReviewer: "John Smith"},
			},
			{
				ID:                "LOGISTICS-005",
				Title:             "Cold Chain Monitoring for Pharma & Food",
				Vertical:          model.VerticalMedTech,
				ImpactScore:       84,
				Trend:             model.TrendAccelerating,
				EvidenceSnippet:   "8-12% of pharma/food products are spoiled due to temperature excursions in the cold chain. FSSAI and Drug Controller are increasing traceability rules.",
				Source:            "Regulatory Filings",
				SourceReliability: model.ReliabilityHigh,
				DateDetected:      "2024-01-07",
				Tags:              []string{"Logistics", "Cold Chain", "Pharma", "Food Safety", "IoT"},
				TimeHorizon:       "0-6 months",
				OpportunityType:   model.TypeRegDriven,
				Geography:         "India",
				Description:       "8-12% of pharma/food products are spoiled due to temperature excursions in the cold chain. FSSAI and Drug Controller are increasing traceability rules.",
				Status:            model.StatusActive,
				Curation:          &model.Curation{Status: model.CurationPublished, Confidence: 87, HumanReviewer: "AI Model & Jane Doe"},
			},
		},
		AuditLogs: []model.AuditLog{},
		DataSources: []model.DataSource{
			{ID: "ds_1", Name: "Federal Register (Daily)", Type: model.SourcePublic, Status: model.SourceStatusActive, LastSync: "10 mins ago", ItemCount: 1240},
			{ID: "ds_2", Name: "ClinicalTrials.gov", Type: model.SourcePublic, Status: model.SourceStatusActive, LastSync: "2 hours ago", ItemCount: 8500},
			{ID: "ds_3", Name: "Bloomberg Terminal API", Type: model.SourceLicensed, Status: model.SourceStatusActive, LastSync: "1 min ago", ItemCount: 420},
			{ID: "ds_4", Name: "Pitchbook VC Feed", Type: model.SourceLicensed, Status: model.SourceStatusSyncing, LastSync: "1 day ago", ItemCount: 150},
		},
	}
}

package config

import "github.com/namatanda/haki-data/internal/category"

// TemplateColumns are the column names of the court returns spreadsheet
// template, in sheet order. The xlsx reader uses them when a sheet carries a
// decorated title block instead of machine-friendly headers.
var TemplateColumns = []string{
	"line", "date_dd", "date_mon", "date_yyyy", "caseid_type", "caseid_no", "filed_dd",
	"filed_mon", "filed_yyyy", "original_court", "original_code", "original_number",
	"original_year", "case_type", "judge_1", "judge_2", "judge_3", "judge_4", "judge_5",
	"judge_6", "judge_7", "comingfor", "outcome", "reason_adj", "next_dd", "next_mon",
	"next_yyyy", "male_applicant", "female_applicant", "organization_applicant",
	"male_defendant", "female_defendant", "organization_defendant", "legalrep",
	"applicant_witness", "defendant_witness", "custody", "other_details",
}

// DefaultClean returns the cleaning rules used for High Court returns.
func DefaultClean() Clean {
	return Clean{
		Required: []string{
			"date_dd", "date_mon", "date_yyyy", "caseid_type", "caseid_no",
			"filed_dd", "filed_mon", "filed_yyyy", "case_type", "comingfor", "outcome",
		},
		Dedup:     "exact",
		TitleCase: []string{"outcome"},
		Replace: map[string]map[string]string{
			"outcome": {"Terminated/ Struck Out/ Dismissed/Case Closed": "Terminated"},
		},
		NullValues: []string{"nan", "NaN", "None", "NULL", "null", "N/A"},
		CourtNameMap: map[string]string{
			"_High Court Div":      "",
			"_High Court Civil":    "",
			"_High Court Criminal": "",
		},
	}
}

// DefaultReference returns the built-in reference data.
func DefaultReference() Reference {
	return Reference{
		CriminalCaseTypes: []string{
			"Murder Case",
			"Criminal Revision",
			"Criminal Appeal",
			"Murder - Gender Justice Criminal Case",
			"Criminal Court Martial Appeal",
			"Anti-Corruption and Economic Crimes Revision",
			"Criminal Miscellaneous Application",
			"Criminal Applications",
			"COA Criminal Appeal",
		},
		BroadCaseTypes: category.Mapping{
			{Name: "Civil Suit", Labels: []string{
				"Civil Suit",
				"Anti-Corruption and Economic Crimes Suit",
				"Family Originating Summons",
				"Family Civil Case",
				"HCC(OS) Family",
				"Commercial Admiralty",
				"Commercial Matters",
			}},
			{Name: "Adoption", Labels: []string{"Family Adoption"}},
			{Name: "Divorce", Labels: []string{"Family Divorce Cause"}},
			{Name: "Criminal Application", Labels: []string{"Criminal Miscellaneous Application"}},
			{Name: "Miscellaneous Application", Labels: []string{
				"Civil Case Miscellaneous",
				"Judicial Review Miscellaneous",
				"JR  Petition Miscellaneous",
				"Anti-Corruption and Economic Crimes Miscellaneous",
				"Commercial Miscellaneous",
				"Constitution and Human Rights Petitions Miscellaneous",
				"Family Miscellaneous",
				"Commercial Arbitration",
			}},
			{Name: "Judicial Review", Labels: []string{
				"Anti-Corruption and Economic Crime Judicial review",
				"Judicial Review ELC",
				"Judicial Review",
			}},
			{Name: "Criminal Revision", Labels: []string{
				"Criminal Revision",
				"Anti-Corruption and Economic Crimes Revision",
			}},
			{Name: "Criminal Appeal", Labels: []string{
				"Criminal Appeal",
				"Criminal Court Martial Appeal",
				"Anti-Corruption and Economic Crimes Appeal",
			}},
			{Name: "Civil Appeal", Labels: []string{
				"Family Appeal",
				"Civil Appeal",
				"Commercial Appeal",
				"Constitution and Human Rights Election Petition Appeal",
				"Constitution and Human Rights Petition Appeal",
				"Gender Justice Civil Appeal",
				"Constitution and Human Rights Miscellaneous Election Petition Appeal (MEPA)",
			}},
			{Name: "Constitution Petition", Labels: []string{
				"Anti Corruption and Economic Crimes Petition",
				"High Court Criminal Petition",
				"Constitution and Human Rights Petition (Civil)",
				"Constitution and Human Rights Election Petition",
				"High Court Constitution and Human Rights Petitions (Criminal)",
				"Commercial Petition",
			}},
			{Name: "Probate Administration", Labels: []string{
				"Family P&A Intestate",
				"Family P&A Ad Litem",
				"Family P&A Ad Colligenda",
				"Family P&A Citation",
				"Family P&A Testate",
				"Family P&A Resealing of Grant",
				"Family P&A De Bonis Non",
				"Resealing of Grant",
				"Citation-Family",
			}},
			{Name: "Murder", Labels: []string{
				"Murder Case",
				"Murder - Gender Justice Criminal Case",
			}},
			{Name: "Tax Appeal", Labels: []string{
				"Commercial Income Tax Appeal",
				"Commercial Custom Tax Appeal",
			}},
			{Name: "Bankruptcy and Insolvency", Labels: []string{
				"Commercial Insolvency Notice Petition",
				"Commercial Insolvency Petition",
				"Commercial Bankruptcy Notice",
				"Commercial Insolvency Cause",
				"Commercial Insolvency Notice",
				"Commercial Bankruptcy Cause",
				"Commercial Winding Up Cause",
			}},
		},
		ResolvedOutcomes: []string{
			"Ruling Delivered- Case Closed",
			"Terminated",
			"Matter Settled- Case Closed",
			"Application Dismissed - Case Closed",
			"Judgment Delivered- Case Closed",
			"Matter Withdrawn",
			"Application Allowed - Case Closed",
			"Application Withdrawn - Case Closed",
			"Judgment Delivered- Convicted",
			"Placed In Probation",
			"Dismissed",
			"Judgment Delivered",
			"Judgment Delivered- Acquittal",
			"Ruling Delivered- Accused Discharged",
			"Abated",
			"Consolidated- Case Closed",
			"Grant Confirmed",
			"Limited Grant Issued",
			"Struck Out",
			"Grant Revoked",
			"Consent Recorded - Case Closed",
			"Dismissed For Want Of Prosecution - Case Closed",
			"Out Of Court Settlement Reached",
			"Appeal Dismissed",
			"Retrial",
			"Appeal Rejected",
			"Sentence Commuted",
			"Ruling Delivered- Application Closed",
			"Probation Orders Issued",
			"Order Issued - Case Closed",
			"Revision Declined",
		},
		MeritOutcomes: []string{
			"Ruling Delivered- Case Closed",
			"Judgment Delivered- Case Closed",
			"Judgment Delivered",
			"Judgment Delivered- Acquittal",
			"Judgment Delivered- Convicted",
			"Grant Revoked",
			"Ruling Delivered- Accused Discharged",
			"Retrial",
		},
		MeritCategories: category.Mapping{
			{Name: "Judgment Delivered", Labels: []string{
				"Judgment Delivered- Case Closed",
				"Judgment Delivered",
				"Judgment Delivered- Acquittal",
				"Judgment Delivered- Convicted",
				"Grant Revoked",
				"Retrial",
			}},
			{Name: "Ruling Case Closed", Labels: []string{
				"Ruling Delivered- Case Closed",
				"Ruling Delivered- Accused Discharged",
			}},
			{Name: "Final Grant", Labels: []string{
				"Grant Confirmed",
				"Limited Grant Issued",
			}},
			{Name: "Case Withdrawn", Labels: []string{
				"Matter Withdrawn",
				"Application Withdrawn - Case Closed",
			}},
			{Name: "Out Of Court Settlement", Labels: []string{
				"Consent Recorded - Case Closed",
				"Matter Settled Through Mediation",
				"Out Of Court Settlement Reached",
			}},
			{Name: "Dismissed", Labels: []string{
				"Dismissed For Want Of Prosecution - Case Closed",
				"Dismissed",
				"Appeal Dismissed",
				"Terminated",
			}},
			{Name: "Case Closed", Labels: []string{
				"Struck Out",
				"Application Dismissed - Case Closed",
				"Application Allowed - Case Closed",
				"Matter Settled- Case Closed",
				"Ruling Delivered- Application Closed",
				"Consolidated- Case Closed",
				"Abated",
				"Placed In Probation",
				"Revision Declined",
				"Probation Orders Issued",
				"Appeal Rejected",
				"Interlocutory Judgement Entered",
				"Order Issued - Case Closed",
			}},
		},
		TimeLimits: map[string]int{
			"Murder":                    360,
			"Criminal Revision":         90,
			"Miscellaneous Application": 90,
			"Civil Suit":                360,
			"Judicial Review":           180,
			"Constitution Petition":     180,
		},
		NonAdjournable: []string{
			"Taxation and Issuance of Certificates",
			"Orders",
			"Appointments of  Mediator",
			"Screening of files for Mediation",
			"Post-judgment",
			"Re-activation",
			"Reactivation",
			"Notice of Taxation",
			"Entering Interlocutory Judgments",
			"Approval by DR",
			"Registration/Filing-Application",
			"Registration/Filing",
		},
	}
}

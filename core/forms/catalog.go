// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package forms

import "codeberg.org/ambagabon/portail/i18n"

// Slugs of the forms.
const (
	SlugRegistration = "immatriculation"
	SlugCivilStatus  = "etat-civil"
	SlugPassport     = "passeports"
	SlugInvestor     = "investisseurs"
	SlugStudent      = "etudiants"
	SlugAlert        = "avertisseur"
)

const (
	msgFullNameRequired  i18n.MsgKey = "Full name is required."
	msgEmailRequired     i18n.MsgKey = "Email address is required."
	msgPhoneRequired     i18n.MsgKey = "Phone number is required."
	phPersonName         i18n.MsgKey = "Surname & first name(s)"
	phEmail              i18n.MsgKey = "name@example.com"
	phAnyPhone           i18n.MsgKey = "+250 / +241 ..."
	submitRequestLabel   i18n.MsgKey = "Send the request (prototype)"
	prototypeSentMessage i18n.MsgKey = "Your request (prototype) has been sent."
)

func fullName(placeholder, msg i18n.MsgKey) Field {
	return Field{
		Name:        "nomComplet",
		Label:       "Full name",
		Input:       InputText,
		Placeholder: placeholder,
		Messages:    map[string]i18n.MsgKey{"required": msg},
	}
}

func email() Field {
	return Field{
		Name:        "email",
		Label:       "Email",
		Input:       InputEmail,
		Placeholder: phEmail,
		Messages:    map[string]i18n.MsgKey{"required": msgEmailRequired},
	}
}

func phone(label, placeholder i18n.MsgKey) Field {
	return Field{
		Name:        "telephone",
		Label:       label,
		Input:       InputTel,
		Placeholder: placeholder,
		Messages:    map[string]i18n.MsgKey{"required": msgPhoneRequired},
	}
}

// choice builds a select field. The same message covers an empty and an
// unknown value.
func choice(name string, label i18n.MsgKey, msg i18n.MsgKey, options ...Option) Field {
	return Field{
		Name:     name,
		Label:    label,
		Input:    InputSelect,
		Options:  options,
		Messages: map[string]i18n.MsgKey{"required": msg, "oneof": msg},
	}
}

func required(name string, label i18n.MsgKey, input Input, placeholder, msg i18n.MsgKey) Field {
	return Field{
		Name:        name,
		Label:       label,
		Input:       input,
		Placeholder: placeholder,
		Messages:    map[string]i18n.MsgKey{"required": msg},
	}
}

// details builds a textarea with a minimum length; one message covers an
// empty and a short value.
func details(name string, label, placeholder, msg i18n.MsgKey) Field {
	return Field{
		Name:        name,
		Label:       label,
		Input:       InputTextarea,
		Placeholder: placeholder,
		Rows:        4,
		Wide:        true,
		Messages:    map[string]i18n.MsgKey{"required": msg, "min": msg},
	}
}

var registration = &Definition{
	Slug:      SlugRegistration,
	Path:      "/immatriculation",
	Title:     "Consular registration",
	Lead:      "Register a Gabonese national living in Rwanda in the consular register of the embassy. (Prototype)",
	Badge:     "Prototype – form under design",
	FormTitle: "Registration form",
	FormIntro: "Please provide accurate information to help the consular service process your request.",
	Steps: []i18n.MsgKey{
		"1. Personal information",
		"2. Situation in Rwanda",
		"3. Emergency contact & consent",
	},
	Sections: []Section{
		{
			Title: "Identity & contact",
			Fields: []Field{
				fullName("MABICKA Marie Jeanne", msgFullNameRequired),
				func() Field {
					f := email()
					f.Messages["email"] = "The email address is not valid."

					return f
				}(),
				phone("Main phone number", "+250 7XX XX XX"),
				{Name: "whatsapp", Label: "WhatsApp (optional)", Input: InputTel, Placeholder: "+241 6X XX XX XX"},
			},
		},
		{
			Title: "Birth & passport",
			Fields: []Field{
				required("dateNaissance", "Date of birth", InputDate, "", "Date of birth is required."),
				required("lieuNaissance", "Place of birth", InputText, "Libreville, Gabon", "Place of birth is required."),
				required("nationalite", "Nationality", InputText, "Gabonese", "Nationality is required."),
				required("passeportDateDelivrance", "Passport issue date", InputDate, "", "Issue date is required."),
				required("passeportNumero", "Passport number", InputText, "PP1234567", "Passport number is required."),
				required("passeportDateExpiration", "Passport expiry date", InputDate, "", "Expiry date is required."),
			},
		},
		{
			Title: "Situation in Rwanda",
			Fields: []Field{
				func() Field {
					f := required("adresse", "Full address in Rwanda", InputTextarea,
						"Neighbourhood, street, building, district", "Address in Rwanda is required.")
					f.Rows = 3

					return f
				}(),
				choice("statut", "Status in Rwanda", "Please select a status.",
					Option{"student", "Student"},
					Option{"worker", "Worker"},
					Option{"internship", "Internship / volunteering"},
					Option{"unemployed", "Resident without employment"},
					Option{"other", "Other situation"},
				),
			},
		},
		{
			Title: "Emergency contact",
			Fields: []Field{
				required("contactUrgenceNom", "Person to contact in an emergency", InputText,
					"Name and relationship (parent, friend...)", "Emergency contact name is required."),
				required("contactUrgenceTelephone", "Emergency phone number", InputTel,
					"+241 / +250 ...", "Emergency contact phone number is required."),
			},
		},
		{
			Title: "Consent",
			Fields: []Field{
				{
					Name:     "consentement",
					Label:    "I certify that the information provided is accurate and I authorise the Embassy of Gabon in Rwanda to contact me about this registration request.",
					Input:    InputCheckbox,
					Wide:     true,
					Messages: map[string]i18n.MsgKey{"eq": "You must give your consent to continue."},
				},
			},
		},
	},
	SubmitLabel:     "Send my request (prototype)",
	Success:         "Your registration form has been sent (prototype). In the final version, it will be recorded and available to the consular service of the embassy.",
	Footnote:        "In the final version, this form will be connected to a secure database and to the administrative dashboard for following up registrations.",
	Remote:          true,
	ClearOnSuccess:  true,
	ReferencePrefix: "IMM",
	newRecord:       func() any { return &Registration{} },
}

var civilStatus = &Definition{
	Slug:  SlugCivilStatus,
	Path:  "/services/etat-civil",
	Title: "Civil status certificates",
	Lead:  "Request for transcription or declaration (birth, marriage, death).",
	Sections: []Section{{
		Fields: []Field{
			fullName(phPersonName, msgFullNameRequired),
			email(),
			phone("Phone", phAnyPhone),
			choice("typeActe", "Type of certificate", "Choose a type of certificate.",
				Option{"birth", "Birth"},
				Option{"marriage", "Marriage"},
				Option{"death", "Death"},
				Option{"other", "Other"},
			),
			required("personneConcernee", "Person concerned by the certificate", InputText,
				"Surname & first name(s) of the person", "Indicate the person concerned by the certificate."),
			details("details", "Additional details",
				"Date of the event, place, references of existing certificates, etc.",
				"Please give a minimum of details."),
		},
	}},
	SubmitLabel:     submitRequestLabel,
	Success:         prototypeSentMessage,
	Footnote:        "In the final version, this form will let you prepare your civil status procedures with the embassy.",
	ReferencePrefix: "ETC",
	newRecord:       func() any { return &CivilStatus{} },
}

var passport = &Definition{
	Slug:  SlugPassport,
	Path:  "/services/passeports",
	Title: "Passports & travel documents",
	Lead:  "Online pre-application to speed up processing in person.",
	Sections: []Section{{
		Fields: []Field{
			fullName(phPersonName, msgFullNameRequired),
			email(),
			phone("Phone", phAnyPhone),
			choice("typeDemande", "Type of request", "Choose a type of request (renewal, loss, etc.).",
				Option{"renewal", "Renewal"},
				Option{"first", "First application"},
				Option{"loss", "Loss declaration"},
				Option{"other", "Other"},
			),
			{Name: "numeroPasseport", Label: "Passport number (if any)", Input: InputText, Placeholder: "PP1234567"},
			details("motif", "Reason / details of the request",
				"Briefly explain your request (urgency, travel deadlines, etc.)",
				"The reason is required."),
		},
	}},
	SubmitLabel:     submitRequestLabel,
	Success:         prototypeSentMessage,
	Footnote:        "This form is a pre-application to prepare your visit to the consulate.",
	ReferencePrefix: "PAS",
	newRecord:       func() any { return &Passport{} },
}

var investor = &Definition{
	Slug:  SlugInvestor,
	Path:  "/investisseurs",
	Title: "Project submission – Investors' area",
	Lead:  "Present an economic project intended for Gabon or Rwanda (prototype).",
	Badge: "Opportunities · Projects · Investments",
	Sections: []Section{
		{
			Fields: []Field{
				fullName("NGOBA Isaac", "Your full name is required."),
				email(),
				phone("Phone", "+241 / +250 ..."),
				required("paysOrigine", "Country of origin", InputText, "Gabon / Rwanda / Other", "This field is required."),
				choice("secteur", "Business sector", "Choose a business sector.",
					Option{"agriculture", "Agriculture"},
					Option{"energy", "Energy"},
					Option{"technology", "Technology"},
					Option{"transport", "Transport & logistics"},
					Option{"real-estate", "Real estate"},
					Option{"health", "Health"},
					Option{"trade", "Trade"},
					Option{"other", "Other"},
				),
				required("titreProjet", "Project title", InputText, "Agro-industrial project...", "Project title is required."),
				required("localisationProjet", "Project location", InputText,
					"Libreville / Kigali / Other region", "Indicate the planned location of the project."),
				required("budget", "Estimated budget", InputText, "E.g. 50,000,000 FCFA", "Estimated budget is required."),
				details("description", "Project description",
					"Explain your project, its objectives, its economic impact...",
					"The description must contain at least 20 characters."),
				{
					Name:        "lienDossier",
					Label:       "Link to a file / presentation (optional)",
					Input:       InputText,
					Placeholder: "Google Drive link, PDF, website...",
					Wide:        true,
				},
			},
		},
	},
	SubmitLabel:     "Send the project (prototype)",
	Success:         "Your project has been sent (prototype). In the final version, it would be forwarded to the economic service.",
	Footnote:        "In the final version, this form will be connected to the economic service of the embassy for review.",
	ReferencePrefix: "INV",
	newRecord:       func() any { return &Investor{} },
}

var student = &Definition{
	Slug:  SlugStudent,
	Path:  "/etudiants",
	Title: "Gabonese students in Rwanda",
	Lead:  "Census of Gabonese students for better academic and consular follow-up.",
	Badge: "Diaspora area – Students",
	Sections: []Section{{
		Fields: []Field{
			fullName("NGUEMA Léa-Christelle", msgFullNameRequired),
			func() Field {
				f := email()
				f.Messages["email"] = "Invalid email address."

				return f
			}(),
			phone("Phone", "+250 / +241"),
			required("universite", "University / institution", InputText,
				"University of Rwanda, ALU...", "University name is required."),
			required("filiere", "Field / speciality", InputText, "Computer science, medicine...", "Field of study is required."),
			choice("niveau", "Level of study", "Level of study is required.",
				Option{"l1", "Bachelor year 1"},
				Option{"l2", "Bachelor year 2"},
				Option{"l3", "Bachelor year 3"},
				Option{"m1", "Master year 1"},
				Option{"m2", "Master year 2"},
				Option{"phd", "Doctorate"},
				Option{"other", "Other programme"},
			),
			choice("typeProgramme", "Type of programme", "Programme type is required.",
				Option{"scholarship", "Scholarship student"},
				Option{"self-funded", "Non-scholarship student"},
				Option{"exchange", "Exchange programme"},
				Option{"other", "Other situation"},
			),
			required("dateArrivee", "Date of arrival in Rwanda", InputDate, "", "Arrival date is required."),
			{
				Name:        "besoinsParticuliers",
				Label:       "Special needs (optional)",
				Input:       InputTextarea,
				Placeholder: "Administrative problems, housing, health...",
				Rows:        3,
				Wide:        true,
			},
		},
	}},
	SubmitLabel:     "Send my form (prototype)",
	Success:         "Your student form has been sent (prototype).",
	Footnote:        "This information will allow the embassy to organise support for Gabonese students in Rwanda.",
	ReferencePrefix: "ETU",
	newRecord:       func() any { return &Student{} },
}

var alert = &Definition{
	Slug:  SlugAlert,
	Path:  "/urgences/avertisseur",
	Title: "Alert – Emergency report",
	Lead:  "This service lets you report a serious situation to the embassy in order to request consular assistance.",
	Sections: []Section{{
		Fields: []Field{
			fullName(phPersonName, "Name is required."),
			phone("Phone", phAnyPhone),
			{Name: "email", Label: "Email (optional)", Input: InputEmail, Placeholder: phEmail},
			choice("typeUrgence", "Type of emergency", "Choose a type of emergency.",
				Option{"medical", "Accident / serious medical situation"},
				Option{"arrest", "Arrest / police custody"},
				Option{"missing", "Missing relative"},
				Option{"violence", "Violence / serious threat"},
				Option{"other", "Other emergency"},
			),
			required("localisation", "Location", InputText,
				"Neighbourhood, town, important landmark...", "Indicate a location or a landmark."),
			details("description", "Description of the situation",
				"Briefly describe the situation and what you need.",
				"Please briefly describe the situation."),
		},
	}},
	SubmitLabel:     "Send the alert (prototype)",
	Success:         "Your report has been sent (prototype). In the final version, the consular team will receive this message immediately.",
	Footnote:        "This service does not replace local emergency numbers. In case of immediate danger, first contact the emergency services on site.",
	ReferencePrefix: "ALR",
	newRecord:       func() any { return &EmergencyAlert{} },
}

// all lists the forms in navigation order.
var all = []*Definition{registration, civilStatus, passport, investor, student, alert}

func init() {
	for _, d := range all {
		d.prepare()
	}
}

// All returns the form definitions in navigation order.
func All() []*Definition {
	out := make([]*Definition, len(all))
	copy(out, all)

	return out
}

// BySlug returns the definition of the form called slug.
func BySlug(slug string) (*Definition, bool) {
	for _, d := range all {
		if d.Slug == slug {
			return d, true
		}
	}

	return nil, false
}

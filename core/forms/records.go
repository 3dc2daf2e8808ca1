// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package forms

// Records keep the French field names of the original site on the wire, so
// the registration body stays the one the endpoint expects.

// Registration is a consular registration request.
type Registration struct {
	NomComplet string `json:"nomComplet" schema:"nomComplet" validate:"required"`
	Email      string `json:"email"      schema:"email"      validate:"required,email"`
	Telephone  string `json:"telephone"  schema:"telephone"  validate:"required"`
	Whatsapp   string `json:"whatsapp"   schema:"whatsapp"`

	DateNaissance           string `json:"dateNaissance"           schema:"dateNaissance"           validate:"required"`
	LieuNaissance           string `json:"lieuNaissance"           schema:"lieuNaissance"           validate:"required"`
	Nationalite             string `json:"nationalite"             schema:"nationalite"             validate:"required"`
	PasseportNumero         string `json:"passeportNumero"         schema:"passeportNumero"         validate:"required"`
	PasseportDateDelivrance string `json:"passeportDateDelivrance" schema:"passeportDateDelivrance" validate:"required"`
	PasseportDateExpiration string `json:"passeportDateExpiration" schema:"passeportDateExpiration" validate:"required"`

	Adresse string `json:"adresse" schema:"adresse" validate:"required"`
	Statut  string `json:"statut"  schema:"statut"  validate:"required,oneof=student worker internship unemployed other"`

	ContactUrgenceNom       string `json:"contactUrgenceNom"       schema:"contactUrgenceNom"       validate:"required"`
	ContactUrgenceTelephone string `json:"contactUrgenceTelephone" schema:"contactUrgenceTelephone" validate:"required"`

	Consentement bool `json:"consentement" schema:"consentement" validate:"eq=true"`
}

// CivilStatus asks for the transcription or declaration of a civil status
// certificate.
type CivilStatus struct {
	NomComplet        string `json:"nomComplet"        schema:"nomComplet"        validate:"required"`
	Email             string `json:"email"             schema:"email"             validate:"required,email"`
	Telephone         string `json:"telephone"         schema:"telephone"         validate:"required"`
	TypeActe          string `json:"typeActe"          schema:"typeActe"          validate:"required,oneof=birth marriage death other"`
	PersonneConcernee string `json:"personneConcernee" schema:"personneConcernee" validate:"required"`
	Details           string `json:"details"           schema:"details"           validate:"required,min=10"`
}

// Passport is a pre-application for a passport or travel document.
type Passport struct {
	NomComplet      string `json:"nomComplet"      schema:"nomComplet"      validate:"required"`
	Email           string `json:"email"           schema:"email"           validate:"required,email"`
	Telephone       string `json:"telephone"       schema:"telephone"       validate:"required"`
	TypeDemande     string `json:"typeDemande"     schema:"typeDemande"     validate:"required,oneof=renewal first loss other"`
	NumeroPasseport string `json:"numeroPasseport" schema:"numeroPasseport"`
	Motif           string `json:"motif"           schema:"motif"           validate:"required"`
}

// Investor is an investment project proposal.
type Investor struct {
	NomComplet         string `json:"nomComplet"         schema:"nomComplet"         validate:"required"`
	Email              string `json:"email"              schema:"email"              validate:"required,email"`
	Telephone          string `json:"telephone"          schema:"telephone"          validate:"required"`
	PaysOrigine        string `json:"paysOrigine"        schema:"paysOrigine"        validate:"required"`
	Secteur            string `json:"secteur"            schema:"secteur"            validate:"required,oneof=agriculture energy technology transport real-estate health trade other"`
	TitreProjet        string `json:"titreProjet"        schema:"titreProjet"        validate:"required"`
	LocalisationProjet string `json:"localisationProjet" schema:"localisationProjet" validate:"required"`
	Budget             string `json:"budget"             schema:"budget"             validate:"required"`
	Description        string `json:"description"        schema:"description"        validate:"required,min=20"`
	LienDossier        string `json:"lienDossier"        schema:"lienDossier"`
}

// Student is the census record of a Gabonese student in Rwanda.
type Student struct {
	NomComplet          string `json:"nomComplet"          schema:"nomComplet"          validate:"required"`
	Email               string `json:"email"               schema:"email"               validate:"required,email"`
	Telephone           string `json:"telephone"           schema:"telephone"           validate:"required"`
	Universite          string `json:"universite"          schema:"universite"          validate:"required"`
	Filiere             string `json:"filiere"             schema:"filiere"             validate:"required"`
	Niveau              string `json:"niveau"              schema:"niveau"              validate:"required,oneof=l1 l2 l3 m1 m2 phd other"`
	TypeProgramme       string `json:"typeProgramme"       schema:"typeProgramme"       validate:"required,oneof=scholarship self-funded exchange other"`
	DateArrivee         string `json:"dateArrivee"         schema:"dateArrivee"         validate:"required"`
	BesoinsParticuliers string `json:"besoinsParticuliers" schema:"besoinsParticuliers"`
}

// EmergencyAlert reports a serious situation to the consular team.
type EmergencyAlert struct {
	NomComplet   string `json:"nomComplet"   schema:"nomComplet"   validate:"required"`
	Telephone    string `json:"telephone"    schema:"telephone"    validate:"required"`
	Email        string `json:"email"        schema:"email"        validate:"omitempty,email"`
	TypeUrgence  string `json:"typeUrgence"  schema:"typeUrgence"  validate:"required,oneof=medical arrest missing violence other"`
	Localisation string `json:"localisation" schema:"localisation" validate:"required"`
	Description  string `json:"description"  schema:"description"  validate:"required,min=10"`
}

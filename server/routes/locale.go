// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/ambagabon/portail/core/untrusted"
	"codeberg.org/ambagabon/portail/i18n"
	"codeberg.org/ambagabon/portail/server/request_context"
	"codeberg.org/ambagabon/portail/server/utils"
)

// SetLocale stores the chosen language in the Lang cookie and sends the
// visitor back to the page they came from.
func SetLocale(w http.ResponseWriter, r *http.Request) error {
	lang := utils.GetFormValue(r, i18n.LangParam)
	if !i18n.Supported(lang) {
		err := i18n.NewUserError(r.Context(), "Unsupported language: {{.Lang}}", "Lang", lang)

		rc := request_context.FromRequest(r)
		rc.StatusCode = http.StatusBadRequest
		rc.RequestError = err

		w.WriteHeader(rc.StatusCode)
		ErrorPage(w, r)

		return err
	}

	untrusted.SetLang(w, r, lang)

	returnPath := utils.SanitizeReturnPath(utils.GetFormValue(r, "return"))
	if returnPath == "" {
		returnPath = "/"
	}

	http.Redirect(w, r, returnPath, http.StatusSeeOther)

	return nil
}

package linkedin

import (
	"fmt"
	"strings"
)

// isLoginURL reports whether a landing URL is the login wall.
func isLoginURL(url string) bool {
	return strings.Contains(url, "/login") || strings.Contains(url, "/uas/login")
}

// isCheckpointURL reports whether a landing URL is an anti-automation
// challenge interposed instead of the requested page.
func isCheckpointURL(url string) bool {
	return strings.Contains(url, "checkpoint") || strings.Contains(url, "challenge")
}

// isUnavailableURL reports whether navigation to a profile resolved to a
// generic not-found page.
func isUnavailableURL(url string) bool {
	return strings.Contains(url, "/404") || strings.Contains(url, "unavailable")
}

// buttonExistsJS builds an expression that reports whether a clickable
// control whose text or aria-label contains label is present. LinkedIn mixes
// <button> and role=button elements, so both are scanned.
func buttonExistsJS(label string) string {
	return fmt.Sprintf(`(() => {
		const needle = %q.toLowerCase();
		const els = document.querySelectorAll('button, div[role="button"], a.artdeco-button');
		for (const el of els) {
			const text = ((el.innerText || '') + ' ' + (el.getAttribute('aria-label') || '')).toLowerCase();
			if (text.includes(needle)) return true;
		}
		return false;
	})()`, label)
}

// clickButtonJS builds an expression that clicks the first matching control
// and reports whether one was found.
func clickButtonJS(label string) string {
	return fmt.Sprintf(`(() => {
		const needle = %q.toLowerCase();
		const els = document.querySelectorAll('button, div[role="button"], a.artdeco-button');
		for (const el of els) {
			const text = ((el.innerText || '') + ' ' + (el.getAttribute('aria-label') || '')).toLowerCase();
			if (text.includes(needle)) { el.click(); return true; }
		}
		return false;
	})()`, label)
}

// unavailableProfileJS detects LinkedIn's in-page markers for a profile that
// does not exist (the URL often stays on the vanity slug).
const unavailableProfileJS = `(() => {
	const body = document.body ? document.body.innerText : '';
	return body.includes('Page not found') ||
		body.includes("This page doesn't exist") ||
		body.includes('profile is not available');
})()`

// dialogGoneJS reports that no modal dialog remains open — the positive
// signal that a submitted request was accepted.
const dialogGoneJS = `document.querySelector('div[role="dialog"]') === null`

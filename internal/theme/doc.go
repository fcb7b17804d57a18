// Package theme resolves the CSS used by the desktop toast popups.
//
// Themes are looked up in the user's themes directory first and then among
// the bundled themes. @import statements are inlined, and the configured
// variant accents are appended so that they win over the theme's defaults.
package theme

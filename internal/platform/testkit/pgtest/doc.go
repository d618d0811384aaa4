// Package pgtest starts a throwaway postgres with the certifica schema applied
// Its helpers build only with the integration_pg tag
package pgtest

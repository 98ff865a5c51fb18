// Package diagnostic records findings that do not stop a run on their own:
// every configuration problem at once, legacy inference fallbacks and
// members the classifier passed over. Each finding carries a stable code
// and an At location so callers and tests can match on it.
package diagnostic

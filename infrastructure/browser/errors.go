package browser

import (
	"context"
	"errors"
	"strings"

	"course_e2e/domain/entities"
)

// Drivers report most failures as plain text, so classification is done on
// lowercased messages. Order matters: staleness is checked before
// not-found because "node ... not found" is a detached node.
var (
	staleKeywords = []string{
		"stale element",
		"not attached to the dom",
		"element is not attached",
		"could not find node with given id",
		"node with given id does not belong",
		"cannot find context with specified id",
		"execution context was destroyed",
		"object not found",
	}

	interceptedKeywords = []string{
		"click intercepted",
		"element click intercepted",
		"intercepts pointer events",
		"other element would receive the click",
		"is covered by",
		"element is not interactable",
		"not interactable",
		"element is outside of the viewport",
	}

	notFoundKeywords = []string{
		"no such element",
		"unable to locate element",
		"cannot find element",
		"element not found",
	}

	timeoutKeywords = []string{
		"timeout",
		"timed out",
	}
)

// classify maps a raw backend error onto the failure taxonomy. Errors
// already carrying a sentinel keep it.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if kind := entities.KindOf(err); kind != entities.FailureUnexpected {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return entities.MarkFailure(entities.FailureUnexpected, err)
	}
	return entities.MarkFailure(classifyMessage(err.Error()), err)
}

func classifyMessage(msg string) entities.FailureKind {
	lower := strings.ToLower(msg)
	switch {
	case containsAny(lower, staleKeywords):
		return entities.FailureStale
	case containsAny(lower, interceptedKeywords):
		return entities.FailureIntercepted
	case containsAny(lower, notFoundKeywords):
		return entities.FailureNotFound
	case containsAny(lower, timeoutKeywords):
		return entities.FailureTimeout
	}
	return entities.FailureUnexpected
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

// isClosedError reports errors raised while tearing down an already closed
// browser; they are ignored on Close.
func isClosedError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed")
}

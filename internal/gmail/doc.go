// Package gmail provides the Gmail side of the email triage workflow:
// reading whole conversations, drafting threaded replies, and tracking
// triage state through the "inprogress" and "done" labels.
//
// Replies are always created as drafts so a human can review them before
// sending. The only mail sent directly is the error notification, which
// goes to the address configured in NOTIFICATION_EMAIL.
package gmail

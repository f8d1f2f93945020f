// Package reminder converts the user's default reminder offset between the
// form it is entered in (an amount of minutes, hours, days or months) and the
// form it is stored in (whole seconds), and keeps it in durable storage under
// the "defaultReminder" key as {"enabled": bool, "amount": seconds}.
//
// Months are a fixed 30 days in both directions, so a stored offset always
// converts back to the unit it was entered in.
package reminder

package sanitizer

import (
	"campsite/pkg/model"
	"strings"
)

func SanitizeBookingCreate(req *model.BookingCreate) {
	req.FirstName = NormalizeName(req.FirstName)
	req.LastName = NormalizeName(req.LastName)
	req.Email = NormalizeEmail(req.Email)
	req.FromDate = NormalizeDate(req.FromDate)
	req.ToDate = NormalizeDate(req.ToDate)
}

func SanitizeBookingModify(req *model.BookingModify) {
	req.Action = model.BookingAction(strings.ToUpper(CollapseSpaces(string(req.Action))))
	req.FromDate = NormalizeDate(req.FromDate)
	req.ToDate = NormalizeDate(req.ToDate)
	req.Reason = NormalizeReason(req.Reason)
}

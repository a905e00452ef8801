package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/amartinez/cuentasclaritas/internal/models"
	"github.com/amartinez/cuentasclaritas/internal/receipt"
	"github.com/amartinez/cuentasclaritas/internal/storage"
	"github.com/amartinez/cuentasclaritas/pkg/api"
)

// storeError logs a storage failure and maps it to a Connect error.
func storeError(op string, err error, args ...any) error {
	slog.Error(op+" failed", append(args, "error", err)...)
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

func draftToProto(d *receipt.Draft) api.Draft {
	items := make([]api.LineItem, len(d.Items))
	for i, item := range d.Items {
		items[i] = lineItemToProto(item)
	}
	return api.Draft{
		DraftID:        d.ID,
		StoreName:      d.StoreName,
		Items:          items,
		ExtractedTotal: d.ExtractedTotal,
		ItemsTotal:     d.ItemsTotal(),
		Total:          d.Total(),
	}
}

func lineItemToProto(item models.LineItem) api.LineItem {
	return api.LineItem{
		Quantity:   item.Quantity,
		Name:       item.Name,
		UnitPrice:  item.UnitPrice,
		TotalPrice: item.TotalPrice(),
	}
}

func lineItemFromProto(item api.LineItem) models.LineItem {
	return models.LineItem{
		Quantity:  item.Quantity,
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
	}
}

func ticketToProto(ticket *models.Ticket, items []models.StoredItem) api.Ticket {
	out := api.Ticket{
		TicketID:    ticket.ID,
		StoreName:   ticket.StoreName,
		Date:        ticket.Date,
		TotalAmount: ticket.TotalAmount,
	}
	for _, item := range items {
		out.Items = append(out.Items, api.StoredItem{
			ItemID:     item.ID,
			Quantity:   item.Quantity,
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice(),
		})
	}
	return out
}

func participantToProto(p *models.Participant) api.Participant {
	return api.Participant{ParticipantID: p.ID, Name: p.Name}
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/helpdesk/internal/api/dto"
	"github.com/opsdesk/helpdesk/internal/domain"
	"github.com/opsdesk/helpdesk/internal/service"
)

// respond renders the success envelope.
func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:                       ticket.ID,
		TicketNumber:             ticket.TicketNumber,
		CustomerID:               ticket.CustomerID,
		ProjectID:                ticket.ProjectID,
		Title:                    ticket.Title,
		Description:              ticket.Description,
		Status:                   ticket.Status,
		Priority:                 ticket.Priority,
		AssignedToUserID:         ticket.AssignedToUserID,
		CreatedByContactID:       ticket.CreatedByContactID,
		SlaPolicyID:              ticket.SlaPolicyID,
		FirstResponseDueAt:       ticket.FirstResponseDueAt,
		ResolutionDueAt:          ticket.ResolutionDueAt,
		FirstResponseAt:          ticket.FirstResponseAt,
		SlaFirstResponseBreached: ticket.SlaFirstResponseBreached,
		SlaResolutionBreached:    ticket.SlaResolutionBreached,
		ResolvedAt:               ticket.ResolvedAt,
		ClosedAt:                 ticket.ClosedAt,
		CreatedAt:                ticket.CreatedAt,
		UpdatedAt:                ticket.UpdatedAt,
	}
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return items
}

func commentResponse(comment *domain.TicketComment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:              comment.ID,
		AuthorUserID:    comment.AuthorUserID,
		AuthorContactID: comment.AuthorContactID,
		Content:         comment.Content,
		IsInternal:      comment.IsInternal,
		CreatedAt:       comment.CreatedAt,
	}
}

func commentResponses(comments []domain.TicketComment) []dto.CommentResponse {
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, commentResponse(&comments[i]))
	}
	return items
}

func tagResponse(tag *domain.TicketTag) dto.TagResponse {
	return dto.TagResponse{ID: tag.ID, Name: tag.Name, Color: tag.Color}
}

func tagResponses(tags []domain.TicketTag) []dto.TagResponse {
	items := make([]dto.TagResponse, 0, len(tags))
	for i := range tags {
		items = append(items, tagResponse(&tags[i]))
	}
	return items
}

func activityResponses(activities []domain.TicketActivity) []dto.ActivityResponse {
	items := make([]dto.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		items = append(items, dto.ActivityResponse{
			ID:             activity.ID,
			ActorUserID:    activity.ActorUserID,
			ActorContactID: activity.ActorContactID,
			Action:         string(activity.Action),
			OldValue:       activity.OldValue,
			NewValue:       activity.NewValue,
			Metadata:       activity.Metadata,
			CreatedAt:      activity.CreatedAt,
		})
	}
	return items
}

func timeEntryResponses(entries []domain.TimeEntry) []dto.TimeEntryResponse {
	items := make([]dto.TimeEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, timeEntryResponse(&entries[i]))
	}
	return items
}

func timeEntryResponse(entry *domain.TimeEntry) dto.TimeEntryResponse {
	return dto.TimeEntryResponse{
		ID:          entry.ID,
		UserID:      entry.UserID,
		ProjectID:   entry.ProjectID,
		TicketID:    entry.TicketID,
		Description: entry.Description,
		Minutes:     entry.Minutes,
		Billable:    entry.Billable,
		StartedAt:   entry.StartedAt,
		CreatedAt:   entry.CreatedAt,
	}
}

func ticketDetailResponse(detail *service.TicketDetail) dto.TicketDetailResponse {
	return dto.TicketDetailResponse{
		TicketResponse: ticketResponse(detail.Ticket),
		Comments:       commentResponses(detail.Comments),
		Tags:           tagResponses(detail.Tags),
		TimeEntries:    timeEntryResponses(detail.TimeEntries),
	}
}

func slaPolicyResponses(policies []domain.SlaPolicy) []dto.SlaPolicyResponse {
	items := make([]dto.SlaPolicyResponse, 0, len(policies))
	for i := range policies {
		items = append(items, slaPolicyResponse(&policies[i]))
	}
	return items
}

func slaPolicyResponse(policy *domain.SlaPolicy) dto.SlaPolicyResponse {
	return dto.SlaPolicyResponse{
		ID:                   policy.ID,
		Name:                 policy.Name,
		Priority:             policy.Priority,
		FirstResponseMinutes: policy.FirstResponseMinutes,
		ResolutionMinutes:    policy.ResolutionMinutes,
		BusinessHoursOnly:    policy.BusinessHoursOnly,
		IsActive:             policy.IsActive,
		IsDefault:            policy.IsDefault,
		CreatedAt:            policy.CreatedAt,
		UpdatedAt:            policy.UpdatedAt,
	}
}

package cli

// AdminMenu wires the administrator actions.
func AdminMenu(h *Handlers) Menu {
	return Menu{
		Title: "Admin Menu",
		Items: []MenuItem{
			{Label: "Display Statistics", Action: h.DisplayStatistics},
			{Label: "Book a Ticket", Action: h.BookTicket},
			{Label: "Display all Tickets", Action: h.DisplayAllTickets},
			{Label: "Change Ticket's Priority", Action: h.ChangePriority},
			{Label: "Disable Ticket", Action: h.DisableTicket},
			{Label: "Run Events", Action: h.RunEvents},
			{Label: "Exit", Exit: true, ExitMessage: "Exiting Admin Menu."},
		},
	}
}

// UserMenu wires the regular user actions.
func UserMenu(h *Handlers) Menu {
	return Menu{
		Title: "User Menu",
		Items: []MenuItem{
			{Label: "Book a Ticket", Action: h.BookTicket},
			{Label: "Exit", Exit: true, ExitMessage: "Saving tickets and exiting."},
		},
	}
}

package notify

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/autoshop/internal/domain/model"
)

const appointmentLayout = "Mon 2 Jan 2006 15:04"

func money(v decimal.Decimal) string {
	return "KES " + v.StringFixed(2)
}

func writeItems(b *strings.Builder, items []model.OrderItem) {
	for _, item := range items {
		fmt.Fprintf(b, "  - %s x%d: %s\n", item.ProductName, item.Quantity, money(item.TotalPrice))
	}
}

func writeInstallation(b *strings.Builder, inst *model.Installation, garage *model.Garage) {
	if !inst.RequiresTechnician() {
		b.WriteString("Installation: self install\n")
		return
	}
	b.WriteString("Installation: technician\n")
	if garage != nil {
		fmt.Fprintf(b, "Garage: %s, %s (%s)\n", garage.Name, garage.Location, garage.Phone)
	}
	if inst.Appointment != nil {
		fmt.Fprintf(b, "Appointment: %s\n", inst.Appointment.Format(appointmentLayout))
	}
	if vehicle := strings.TrimSpace(inst.VehicleMake + " " + inst.VehicleModel); vehicle != "" {
		fmt.Fprintf(b, "Vehicle: %s %s\n", vehicle, inst.VehicleRegistration)
	}
}

func confirmationContent(order *model.Order, name string) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nThank you for your order %s.\n\n", greetingName(name), order.Number)
	writeItems(&b, order.Items)
	fmt.Fprintf(&b, "\nSubtotal: %s\nShipping: %s\nTotal: %s\n", money(order.Subtotal), money(order.Shipping), money(order.Total))
	fmt.Fprintf(&b, "Payment method: %s\n", order.PaymentMethod)
	writeInstallation(&b, order.Installation, order.Garage)
	if order.InvoiceURL != "" {
		fmt.Fprintf(&b, "Invoice: %s\n", order.InvoiceURL)
	}
	return "Order confirmation " + order.Number, b.String()
}

func adminContent(order *model.Order) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %s was placed.\n\n", order.Number)
	fmt.Fprintf(&b, "Customer: %s <%s> %s\n", order.CustomerName(), order.CustomerEmail(), order.Address.Phone)
	fmt.Fprintf(&b, "Ship to: %s, %s, %s\n\n", order.Address.Address, order.Address.City, order.Address.County)
	writeItems(&b, order.Items)
	fmt.Fprintf(&b, "\nTotal: %s (%s)\n", money(order.Total), order.PaymentMethod)
	writeInstallation(&b, order.Installation, order.Garage)
	return "New order " + order.Number, b.String()
}

func garageContent(order *model.Order, garage model.Garage) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nA technician installation was booked with order %s.\n\n", garage.Name, order.Number)
	fmt.Fprintf(&b, "Customer: %s, %s\n", order.CustomerName(), order.Address.Phone)
	writeInstallation(&b, order.Installation, nil)
	b.WriteString("\nHardware:\n")
	writeItems(&b, order.Items)
	return "Installation booking " + order.Number, b.String()
}

func statusContent(order *model.Order, name string, previous, current model.OrderStatus) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nYour order %s moved from %s to %s.\n", greetingName(name), order.Number, previous, current)
	if current == model.OrderStatusShipped {
		if order.Tracking.Number != "" {
			fmt.Fprintf(&b, "Tracking number: %s", order.Tracking.Number)
			if order.Tracking.Carrier != "" {
				fmt.Fprintf(&b, " (%s)", order.Tracking.Carrier)
			}
			b.WriteString("\n")
		}
		if order.Installation.RequiresTechnician() && order.Garage != nil {
			fmt.Fprintf(&b, "Installation garage: %s, %s (%s)\n", order.Garage.Name, order.Garage.Location, order.Garage.Phone)
		}
	}
	return fmt.Sprintf("Order %s is %s", order.Number, current), b.String()
}

func greetingName(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return "customer"
}

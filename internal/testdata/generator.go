// Package testdata generates sample payment spreadsheets in the layout the
// importer expects.
package testdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/xuri/excelize/v2"
)

// Headers is the export header row, in the column order used by the
// payment platforms' spreadsheet exports.
var Headers = []string{
	"ID de la transacción",
	"Fecha y hora de la transacción",
	"Monto de la transacción",
	"Estado de la transacción",
	"Tipo de transacción",
	"Nombre del cliente",
	"Número de identificación",
	"Dirección",
	"Teléfono",
	"Correo electrónico",
	"Plataforma utilizada",
	"Número de factura",
	"Periodo de facturación",
	"Monto facturado",
	"Monto pagado",
}

// Options controls Generate. Zero values pick small defaults.
type Options struct {
	Rows     int
	Clients  int
	Invoices int
	Seed     uint64
	Start    time.Time
}

var (
	firstNames = []string{"Ana", "Luis", "Marta", "Jorge", "Camila", "Andrés", "Valentina", "Felipe"}
	lastNames  = []string{"Gómez", "Rodríguez", "Martínez", "López", "Díaz", "Pérez", "Torres"}
	streets    = []string{"Calle 10", "Carrera 7", "Avenida 68", "Calle 80", "Transversal 5"}
	platforms  = []string{"Nequi", "Daviplata", "PSE", "Bancolombia", "Efecty"}
	statuses   = []string{"Pendiente", "Completado", "Fallido"}
	types      = []string{"Pago de factura", "Abono", "Recarga"}
)

type client struct {
	name, id, address, phone, email string
}

// Generate returns a header row followed by opts.Rows data rows. Output is
// deterministic for a given Seed. Each invoice belongs to one client, so
// rows sharing an invoice number also share the client.
func Generate(opts Options) [][]string {
	if opts.Rows <= 0 {
		opts.Rows = 20
	}
	if opts.Clients <= 0 {
		opts.Clients = 5
	}
	if opts.Invoices <= 0 {
		opts.Invoices = opts.Clients * 2
	}
	if opts.Start.IsZero() {
		opts.Start = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	clients := make([]client, opts.Clients)
	for i := range clients {
		first := firstNames[rng.IntN(len(firstNames))]
		last := lastNames[rng.IntN(len(lastNames))]
		clients[i] = client{
			name:    first + " " + last,
			id:      fmt.Sprintf("%d", 1000000000+i*7919),
			address: fmt.Sprintf("%s # %d-%d", streets[rng.IntN(len(streets))], rng.IntN(120)+1, rng.IntN(90)+1),
			phone:   fmt.Sprintf("3%02d%07d", rng.IntN(30)+10, rng.IntN(10000000)),
			email:   fmt.Sprintf("cliente%d@example.com", i+1),
		}
	}
	owner := make([]int, opts.Invoices)
	billed := make([]int, opts.Invoices)
	for i := range owner {
		owner[i] = i % opts.Clients
		billed[i] = (rng.IntN(400) + 20) * 1000
	}

	out := make([][]string, 0, opts.Rows+1)
	out = append(out, Headers)
	for i := 0; i < opts.Rows; i++ {
		inv := rng.IntN(opts.Invoices)
		c := clients[owner[inv]]
		when := opts.Start.Add(time.Duration(i)*time.Hour + time.Duration(rng.IntN(3600))*time.Second)
		amount := billed[inv] / (rng.IntN(3) + 1)
		out = append(out, []string{
			fmt.Sprintf("TX%06d", i+1),
			when.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d.00", amount),
			statuses[rng.IntN(len(statuses))],
			types[rng.IntN(len(types))],
			c.name,
			c.id,
			c.address,
			c.phone,
			c.email,
			platforms[rng.IntN(len(platforms))],
			fmt.Sprintf("FAC-%04d", inv+1),
			time.Date(when.Year(), when.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			fmt.Sprintf("%d.00", billed[inv]),
			fmt.Sprintf("%d.00", amount),
		})
	}
	return out
}

// WriteCSV writes rows as a comma separated file.
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteXLSX writes rows to the first sheet of a new workbook.
func WriteXLSX(w io.Writer, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+1, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

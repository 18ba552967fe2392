// seed genera un script SQL con datos de ejemplo para un día: barras producidas el día anterior
// y el mismo día, y entregas con sus hamburguesas.
//
// Uso: go run ./cmd/seed [YYYY-MM-DD]
// Por defecto usa la fecha de hoy (hora local).
// Escribe: scripts/seed_demo.sql (no se embebe en las migraciones).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Porcionado-api/pkg/fecha"
	"github.com/shopspring/decimal"
)

type barraSeed struct {
	peso      string
	cantidad  string
	diasAtras int
}

type lineaSeed struct {
	tipo     string
	gramaje  string
	cantidad string
}

type entregaSeed struct {
	cliente string
	hora    int
	lineas  []lineaSeed
}

var barras = []barraSeed{
	{peso: "500", cantidad: "2", diasAtras: 1},
	{peso: "500", cantidad: "1", diasAtras: 0},
	{peso: "750", cantidad: "4", diasAtras: 0},
}

var entregas = []entregaSeed{
	{cliente: "cliente-1", hora: 9, lineas: []lineaSeed{
		{tipo: "hamburguesa", gramaje: "200", cantidad: "3"},
		{tipo: "pollo", gramaje: "180", cantidad: "2"},
	}},
	{cliente: "cliente-2", hora: 15, lineas: []lineaSeed{
		{tipo: "", gramaje: "200.0", cantidad: "2"},
		{tipo: "hamburguesa", gramaje: "150", cantidad: "4"},
	}},
}

func main() {
	day := fecha.StartOfDay(time.Now(), time.Local)
	if len(os.Args) > 1 {
		d, err := fecha.Parse(os.Args[1], time.Local)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fecha: %v\n", err)
			os.Exit(1)
		}
		day = d
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "scripts", "seed_demo.sql")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	fmt.Fprintf(out, "-- Datos de ejemplo para %s\n\n", fecha.Format(day))

	// 1. Barras
	out.WriteString("-- 1. Barras\n")
	totalGramos := decimal.Zero
	for _, b := range barras {
		peso := decimal.RequireFromString(b.peso)
		cantidad := decimal.RequireFromString(b.cantidad)
		totalGramos = totalGramos.Add(peso.Mul(cantidad))
		producedOn := day.AddDate(0, 0, -b.diasAtras)
		fmt.Fprintf(out, "INSERT INTO barras (id, peso_gramos, cantidad, fecha_produccion, disponible)\n")
		fmt.Fprintf(out, "VALUES ('%s', %s, %s, '%s', TRUE);\n",
			uuid.New().String(), peso.String(), cantidad.String(), producedOn.Format(time.RFC3339))
	}

	// 2. Entregas y hamburguesas
	out.WriteString("\n-- 2. Entregas\n")
	demanda := decimal.Zero
	for i, e := range entregas {
		deliveryID := fmt.Sprintf("demo-%s-%d", fecha.Format(day), i+1)
		at := day.Add(time.Duration(e.hora) * time.Hour)
		fmt.Fprintf(out, "INSERT INTO deliveries (id, client_id, fecha) VALUES ('%s', '%s', '%s')\n",
			escapeSQL(deliveryID), escapeSQL(e.cliente), at.Format(time.RFC3339))
		out.WriteString("ON CONFLICT (id) DO NOTHING;\n")
		for j, l := range e.lineas {
			gramaje := decimal.RequireFromString(l.gramaje)
			cantidad := decimal.RequireFromString(l.cantidad)
			demanda = demanda.Add(gramaje.Mul(cantidad))
			fmt.Fprintf(out, "INSERT INTO hamburguesas (id, delivery_id, tipo, cantidad, gramaje) VALUES ('%s-%d', '%s', %s, %s, %s)\n",
				escapeSQL(deliveryID), j+1, escapeSQL(deliveryID), nullableText(l.tipo), cantidad.String(), gramaje.String())
			out.WriteString("ON CONFLICT (id) DO NOTHING;\n")
		}
	}

	fmt.Printf("Generado %s: %d barras (%s g), %d entregas (%s g demandados)\n",
		outPath, len(barras), totalGramos.String(), len(entregas), demanda.String())
}

func nullableText(s string) string {
	if s == "" {
		return "NULL"
	}
	return "'" + escapeSQL(s) + "'"
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}

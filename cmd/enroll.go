package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danprat/ABSEN-DESA/internal/recognize"
	"github.com/danprat/ABSEN-DESA/internal/store"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll",
	Short: "Enroll a face photo for an employee",
	Long: `Extract a face vector from a photo file and store it for an
employee. Pick the employee with --employee (ID) or --nip. Enrollment
uses the extractor's accurate mode, so it is slower than kiosk
recognition but produces better vectors.`,
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().Int64("employee", 0, "Employee ID to enroll")
	enrollCmd.Flags().String("nip", "", "Employee NIP to enroll (alternative to --employee)")
	enrollCmd.Flags().String("photo", "", "Path to the photo file (required)")
	_ = enrollCmd.MarkFlagRequired("photo")
}

// resolveEnrollTarget finds the employee addressed by --employee or --nip.
func resolveEnrollTarget(ctx context.Context, b *backend, cmd *cobra.Command) (*store.Employee, error) {
	id := mustGetInt64(cmd, "employee")
	nip := mustGetString(cmd, "nip")

	switch {
	case id != 0:
		emp, err := b.store.GetEmployee(ctx, id)
		if err != nil {
			return nil, err
		}
		if emp == nil {
			return nil, fmt.Errorf("no employee with ID %d", id)
		}
		return emp, nil
	case nip != "":
		emp, err := b.store.FindEmployeeByNIP(ctx, nip)
		if err != nil {
			return nil, err
		}
		if emp == nil {
			return nil, fmt.Errorf("no employee with NIP %s", nip)
		}
		return emp, nil
	default:
		return nil, errors.New("either --employee or --nip is required")
	}
}

func runEnroll(cmd *cobra.Command, args []string) error {
	photoPath := mustGetString(cmd, "photo")
	image, err := os.ReadFile(photoPath)
	if err != nil {
		return fmt.Errorf("read photo: %w", err)
	}

	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	ctx := context.Background()
	emp, err := resolveEnrollTarget(ctx, b, cmd)
	if err != nil {
		return err
	}

	engine := recognize.NewEngine(b.store, recognize.Options{Dim: b.cfg.Extractor.Dim})
	extractor := recognize.NewExtractor(b.cfg.Extractor)
	recognizer := recognize.NewRecognizer(engine, extractor, b.store, b.cfg)

	fmt.Printf("Extracting face vector for %s...\n", emp.Name)
	vector, err := recognizer.ExtractForEnrollment(ctx, image)
	if errors.Is(err, recognize.ErrNoFaceDetected) {
		return errors.New("no face detected in the photo")
	}
	if err != nil {
		return fmt.Errorf("extract face vector: %w", err)
	}

	count, err := b.store.CountEmbeddings(ctx, emp.ID)
	if err != nil {
		return fmt.Errorf("count embeddings: %w", err)
	}

	emb := &store.FaceEmbedding{
		EmployeeID: emp.ID,
		Vector:     vector,
		IsPrimary:  count == 0,
	}
	if err := b.store.AddEmbedding(ctx, emb); err != nil {
		return fmt.Errorf("store face vector: %w", err)
	}

	b.audit.Record(ctx, store.AuditEntry{
		Action:      "face_enrolled",
		Entity:      "employee",
		EntityID:    emp.ID,
		Description: fmt.Sprintf("enrolled face vector %d for %s via CLI", emb.ID, emp.Name),
	})

	fmt.Printf("Enrolled vector %d for %s (%d on file)\n", emb.ID, emp.Name, count+1)
	return nil
}
